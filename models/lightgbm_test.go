package models

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aouyang1/go-ricecast/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// lightGBMText is a single stump splitting the first feature at 0.5 into leaves 1 and 3.
func lightGBMText(featureNames string) string {
	return fmt.Sprintf(`tree
version=v3
num_class=1
num_tree_per_iteration=1
label_index=0
max_feature_idx=1
objective=regression
feature_names=%s

Tree=0
num_leaves=2
num_cat=0
split_feature=0
split_gain=1
threshold=0.5
decision_type=2
left_child=-1
right_child=-2
leaf_value=1 3
leaf_count=10 10
shrinkage=1

end of trees
`, featureNames)
}

func TestLightGBM(t *testing.T) {
	testData := map[string]struct {
		featureNames string
		names        []string
	}{
		"named": {
			featureNames: "Produksi_Padi_Ton_clean_lag_1 Month_sin",
			names:        []string{"Produksi_Padi_Ton_clean_lag_1", "Month_sin"},
		},
		"generated names": {
			featureNames: "Column_0 Column_1",
		},
		"partially generated names": {
			featureNames: "Column_0 Month_sin",
			names:        []string{"Column_0", "Month_sin"},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			l, err := ParseLightGBM(lightGBMText(td.featureNames))
			require.NoError(t, err)

			assert.Equal(t, 2, l.NumFeatures())
			assert.Equal(t, td.names, l.FeatureNames())

			res, err := l.Predict(mat.NewDense(3, 2, []float64{
				0.9, 0.1,
				0.1, 0.9,
				0.5, 0.0,
			}))
			require.NoError(t, err)
			assert.InDeltaSlice(t, []float64{3, 1, 1}, res, 1e-9)

			_, err = l.Predict(mat.NewDense(1, 3, []float64{0.9, 0.1, 0.0}))
			assert.ErrorIs(t, err, ErrFeatureLenMismatch)

			_, err = l.Predict(nil)
			assert.ErrorIs(t, err, ErrNoDesignMatrix)
		})
	}
}

func TestLightGBMFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LGBMM.txt")
	require.NoError(t, os.WriteFile(path, []byte(lightGBMText("Produksi_Padi_Ton_clean_lag_1 Month_sin")), 0o644))

	reg, err := Load(path)
	require.NoError(t, err)
	require.IsType(t, &LightGBM{}, reg)

	res, err := reg.Predict(mat.NewDense(1, 2, []float64{0.9, 0.1}))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3}, res, 1e-9)
}

func TestLightGBMAdapterNames(t *testing.T) {
	schema := testSchema(t)

	testData := map[string]struct {
		featureNames string
		expected     float64
		err          error
	}{
		"schema order": {
			featureNames: "Produksi_Padi_Ton_clean_lag_1 Month_sin",
			expected:     3,
		},
		"reversed order": {
			featureNames: "Month_sin Produksi_Padi_Ton_clean_lag_1",
			err:          feature.ErrSchemaMismatch,
		},
		"different feature": {
			featureNames: "Produksi_Padi_Ton_clean_lag_2 Month_sin",
			err:          ErrFeatureNames,
		},
		"generated names": {
			featureNames: "Column_0 Column_1",
			expected:     3,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			l, err := ParseLightGBM(lightGBMText(td.featureNames))
			require.NoError(t, err)

			a, err := NewAdapter("lgbm", l, schema)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)

			res, err := a.PredictOne([]float64{0.9, 0.1})
			require.NoError(t, err)
			assert.InDelta(t, td.expected, res, 1e-9)
		})
	}
}

func TestLightGBMConcurrent(t *testing.T) {
	l, err := ParseLightGBM(lightGBMText("Produksi_Padi_Ton_clean_lag_1 Month_sin"))
	require.NoError(t, err)
	a, err := NewAdapter("lgbm", l, testSchema(t))
	require.NoError(t, err)

	var wg sync.WaitGroup
	res := make([]float64, 16)
	for i := range res {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res[i], _ = a.PredictOne([]float64{float64(i%2) * 0.9, 0.1})
		}(i)
	}
	wg.Wait()

	for i, v := range res {
		expected := 1.0
		if i%2 == 1 {
			expected = 3
		}
		assert.Equal(t, expected, v)
	}
}
