// Package models adapts externally trained regressors to the forecaster. Models are
// never fit here; they are loaded from artifacts and only asked for predictions.
package models

import (
	"gonum.org/v1/gonum/mat"
)

// Regressor predicts one value per row of a design matrix.
type Regressor interface {
	Predict(x mat.Matrix) ([]float64, error)
}

// Sized is implemented by regressors that know how many features they were trained on.
type Sized interface {
	NumFeatures() int
}

// Named is implemented by regressors that carry the feature names they were trained on.
type Named interface {
	FeatureNames() []string
}
