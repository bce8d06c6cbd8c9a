package models

import (
	"fmt"
	"math"

	"github.com/aouyang1/go-ricecast/feature"
	"gonum.org/v1/gonum/mat"
)

// Adapter wraps a regressor with the feature schema it was trained on and predicts a
// single scaled feature row at a time. It is safe for concurrent use as long as the
// regressor is; Linear and Tree are read only and LightGBM locks internally.
type Adapter struct {
	Name string

	reg   Regressor
	width int
}

// NewAdapter checks that the regressor agrees with the schema on the number of features
// and, when it carries them, on their names and order.
func NewAdapter(name string, reg Regressor, schema *feature.Schema) (*Adapter, error) {
	if reg == nil {
		return nil, fmt.Errorf("model %s, %w", name, ErrNoRegressor)
	}
	width := schema.Len()
	if sized, ok := reg.(Sized); ok {
		if n := sized.NumFeatures(); n > 0 && n != width {
			return nil, fmt.Errorf(
				"model %s expects %d features, schema has %d, %w",
				name, n, width, ErrFeatureLenMismatch,
			)
		}
	}
	if named, ok := reg.(Named); ok {
		if names := named.FeatureNames(); names != nil {
			if err := schema.Equal(names); err != nil {
				return nil, fmt.Errorf("model %s, %w, %w", name, ErrFeatureNames, err)
			}
		}
	}
	return &Adapter{
		Name:  name,
		reg:   reg,
		width: width,
	}, nil
}

// Width returns the number of features a row must have.
func (a *Adapter) Width() int {
	return a.width
}

// PredictOne predicts a single already scaled feature row.
func (a *Adapter) PredictOne(x []float64) (float64, error) {
	if len(x) != a.width {
		return 0, fmt.Errorf(
			"model %s got %d features, but expected %d, %w",
			a.Name, len(x), a.width, ErrFeatureLenMismatch,
		)
	}
	for j, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("model %s feature %d, %w", a.Name, j, ErrMissingValue)
		}
	}

	row := make([]float64, len(x))
	copy(row, x)

	res, err := a.reg.Predict(mat.NewDense(1, len(row), row))
	if err != nil {
		return 0, fmt.Errorf("model %s, %w", a.Name, err)
	}
	if len(res) == 0 {
		return 0, fmt.Errorf("model %s, %w", a.Name, ErrEmptyPrediction)
	}
	return res[0], nil
}

// Blend is the unweighted mean of two model outputs.
func Blend(a, b float64) float64 {
	return (a + b) / 2
}
