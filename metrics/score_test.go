package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScores(t *testing.T) {
	testData := map[string]struct {
		predicted []float64
		actual    []float64
		expected  *Scores
		err       error
	}{
		"length mismatch": {
			predicted: []float64{1},
			actual:    []float64{1, 2},
			err:       ErrResLenMismatch,
		},
		"all missing": {
			predicted: []float64{math.NaN()},
			actual:    []float64{1},
			err:       ErrNoObservations,
		},
		"perfect": {
			predicted: []float64{1, 2, 3},
			actual:    []float64{1, 2, 3},
			expected:  &Scores{R2: 1},
		},
		"offset by one": {
			predicted: []float64{2, 3, 4},
			actual:    []float64{1, 2, 3},
			expected: &Scores{
				RMSE:  1,
				MAE:   1,
				SMAPE: 100 * (1.0/1.5 + 1.0/2.5 + 1.0/3.5) / 3,
				R2:    -0.5,
			},
		},
		"missing values are skipped": {
			predicted: []float64{2, math.NaN(), 4},
			actual:    []float64{1, 5, 3},
			expected: &Scores{
				RMSE:  1,
				MAE:   1,
				SMAPE: 100 * (1.0/1.5 + 1.0/3.5) / 2,
				R2:    0,
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			scores, err := NewScores(td.predicted, td.actual)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, td.expected.RMSE, scores.RMSE, 1e-9)
			assert.InDelta(t, td.expected.MAE, scores.MAE, 1e-9)
			assert.InDelta(t, td.expected.SMAPE, scores.SMAPE, 1e-9)
			assert.InDelta(t, td.expected.R2, scores.R2, 1e-9)
		})
	}
}

func TestSMAPEZeroDenominator(t *testing.T) {
	res, err := SMAPE([]float64{0, 10}, []float64{0, 10})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res)

	res, err = SMAPE([]float64{0, 5}, []float64{0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, res, 1e-12)
}
