package models

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Linear is a fitted linear regression stored as its intercept and coefficients.
type Linear struct {
	Kind      string    `json:"kind"`
	Intercept float64   `json:"intercept"`
	Coef      []float64 `json:"coef"`
	Names     []string  `json:"feature_names,omitempty"`
}

func (l *Linear) NumFeatures() int {
	return len(l.Coef)
}

func (l *Linear) FeatureNames() []string {
	return l.Names
}

func (l *Linear) Predict(x mat.Matrix) ([]float64, error) {
	if x == nil {
		return nil, ErrNoDesignMatrix
	}

	coef := append([]float64{l.Intercept}, l.Coef...)

	m, _ := x.Dims()
	ones := make([]float64, m)
	floats.AddConst(1.0, ones)
	onesMx := mat.NewDense(1, m, ones)

	var xWithOnes mat.Dense
	xWithOnes.Stack(onesMx, x.T())

	n := len(coef)
	xn, _ := xWithOnes.Dims()
	if xn != n {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", xn-1, n-1, ErrFeatureLenMismatch)
	}
	coefMx := mat.NewDense(1, n, coef)

	var res mat.Dense
	res.Mul(coefMx, &xWithOnes)
	return res.RawRowView(0), nil
}
