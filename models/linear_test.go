package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLinearPredict(t *testing.T) {
	testData := map[string]struct {
		model    *Linear
		x        mat.Matrix
		expected []float64
		err      error
	}{
		"no design matrix": {
			model: &Linear{Intercept: 1, Coef: []float64{1}},
			err:   ErrNoDesignMatrix,
		},
		"feature mismatch": {
			model: &Linear{Intercept: 1, Coef: []float64{1, 2}},
			x:     mat.NewDense(1, 3, []float64{1, 2, 3}),
			err:   ErrFeatureLenMismatch,
		},
		"valid": {
			model:    &Linear{Intercept: 3, Coef: []float64{2, -1}},
			x:        mat.NewDense(2, 2, []float64{1, 1, 0, 4}),
			expected: []float64{4, -1},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := td.model.Predict(td.x)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.InDeltaSlice(t, td.expected, res, 1e-12)
		})
	}
}
