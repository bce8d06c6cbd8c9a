package models

import (
	"fmt"
	"sync"

	"github.com/YuminosukeSato/scigo/sklearn/lightgbm"
	"gonum.org/v1/gonum/mat"
)

// LightGBM serves a model saved in the native LightGBM text format. The scigo predictor
// keeps no guarantees for concurrent callers so predictions are serialized.
type LightGBM struct {
	model     *lightgbm.Model
	predictor *lightgbm.Predictor
	mu        sync.Mutex
}

// LoadLightGBM reads a native LightGBM model file. Predictions are deterministic.
func LoadLightGBM(path string) (*LightGBM, error) {
	model, err := lightgbm.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load lightgbm model %s, %w", path, err)
	}
	return newLightGBM(model), nil
}

// ParseLightGBM reads a model from its native text form.
func ParseLightGBM(text string) (*LightGBM, error) {
	model, err := lightgbm.LoadFromString(text)
	if err != nil {
		return nil, fmt.Errorf("unable to parse lightgbm model, %w", err)
	}
	return newLightGBM(model), nil
}

func newLightGBM(model *lightgbm.Model) *LightGBM {
	predictor := lightgbm.NewPredictor(model)
	predictor.SetDeterministic(true)
	return &LightGBM{
		model:     model,
		predictor: predictor,
	}
}

func (l *LightGBM) NumFeatures() int {
	return l.model.NumFeatures
}

// FeatureNames returns the names the model was trained with. Models trained on a bare
// array carry the generated Column_0..Column_N names which say nothing about order, so
// those come back as nil.
func (l *LightGBM) FeatureNames() []string {
	names := l.model.FeatureNames
	if len(names) == 0 {
		return nil
	}
	generated := true
	for i, name := range names {
		if name != fmt.Sprintf("Column_%d", i) {
			generated = false
			break
		}
	}
	if generated {
		return nil
	}
	res := make([]string, len(names))
	copy(res, names)
	return res
}

func (l *LightGBM) Predict(x mat.Matrix) ([]float64, error) {
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	_, n := x.Dims()
	if n != l.model.NumFeatures {
		return nil, fmt.Errorf(
			"got %d features in design matrix, but expected %d, %w",
			n, l.model.NumFeatures, ErrFeatureLenMismatch,
		)
	}

	l.mu.Lock()
	pred, err := l.predictor.Predict(x)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	m, _ := pred.Dims()
	res := make([]float64, m)
	for i := 0; i < m; i++ {
		res[i] = pred.At(i, 0)
	}
	return res, nil
}
