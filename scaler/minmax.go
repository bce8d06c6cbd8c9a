// Package scaler holds the min-max feature scaler fit once on training rows and replayed
// unchanged at inference.
package scaler

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNotFitted       = errors.New("scaler is not fitted")
	ErrWidthMismatch   = errors.New("row width does not match scaler")
	ErrNoTrainingData  = errors.New("no rows to fit the scaler on")
	ErrInvalidRange    = errors.New("feature range minimum must be less than maximum")
	ErrNoFiniteValues  = errors.New("feature has no finite values")
	ErrArtifactCorrupt = errors.New("scaler artifact is inconsistent")
)

// rangeEps matches the floor under which a feature range is treated as constant.
var rangeEps = 10 * (math.Nextafter(1, 2) - 1)

// MinMax scales every feature linearly so that the training minimum maps to
// FeatureRange[0] and the training maximum to FeatureRange[1].
type MinMax struct {
	FeatureNames []string   `json:"feature_names"`
	DataMin      []float64  `json:"data_min"`
	DataMax      []float64  `json:"data_max"`
	FeatureRange [2]float64 `json:"feature_range"`

	scale []float64
	min   []float64
}

// NewMinMax returns an unfitted scaler mapping to [0, 1].
func NewMinMax() *MinMax {
	return &MinMax{FeatureRange: [2]float64{0, 1}}
}

// Fit learns the per feature minimum and maximum ignoring missing values.
func (s *MinMax) Fit(names []string, rows [][]float64) error {
	if len(rows) == 0 {
		return ErrNoTrainingData
	}
	n := len(names)
	lo := make([]float64, n)
	hi := make([]float64, n)
	for j := range n {
		lo[j] = math.Inf(1)
		hi[j] = math.Inf(-1)
	}
	for i, row := range rows {
		if len(row) != n {
			return fmt.Errorf("row %d has %d values, expected %d, %w", i, len(row), n, ErrWidthMismatch)
		}
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			lo[j] = math.Min(lo[j], v)
			hi[j] = math.Max(hi[j], v)
		}
	}
	for j := range n {
		if math.IsInf(lo[j], 1) {
			return fmt.Errorf("%s, %w", names[j], ErrNoFiniteValues)
		}
	}

	s.FeatureNames = append([]string(nil), names...)
	s.DataMin = lo
	s.DataMax = hi
	return s.init()
}

func (s *MinMax) init() error {
	if s.FeatureRange[0] >= s.FeatureRange[1] {
		return ErrInvalidRange
	}
	n := len(s.FeatureNames)
	if len(s.DataMin) != n || len(s.DataMax) != n {
		return fmt.Errorf(
			"%d names, %d minimums, %d maximums, %w",
			n, len(s.DataMin), len(s.DataMax), ErrArtifactCorrupt,
		)
	}
	s.scale = make([]float64, n)
	s.min = make([]float64, n)
	span := s.FeatureRange[1] - s.FeatureRange[0]
	for j := range n {
		dataRange := s.DataMax[j] - s.DataMin[j]
		if dataRange < rangeEps {
			dataRange = 1
		}
		s.scale[j] = span / dataRange
		s.min[j] = s.FeatureRange[0] - s.DataMin[j]*s.scale[j]
	}
	return nil
}

// Width returns the number of features the scaler was fitted on.
func (s *MinMax) Width() int {
	return len(s.scale)
}

// Transform scales a single row into a new slice.
func (s *MinMax) Transform(row []float64) ([]float64, error) {
	if s.scale == nil {
		return nil, ErrNotFitted
	}
	if len(row) != len(s.scale) {
		return nil, fmt.Errorf("row has %d values, scaler has %d, %w", len(row), len(s.scale), ErrWidthMismatch)
	}
	res := make([]float64, len(row))
	for j, v := range row {
		res[j] = v*s.scale[j] + s.min[j]
	}
	return res, nil
}

// TransformMatrix scales every row of x.
func (s *MinMax) TransformMatrix(x mat.Matrix) (*mat.Dense, error) {
	if s.scale == nil {
		return nil, ErrNotFitted
	}
	r, c := x.Dims()
	if c != len(s.scale) {
		return nil, fmt.Errorf("matrix has %d columns, scaler has %d, %w", c, len(s.scale), ErrWidthMismatch)
	}
	res := mat.NewDense(r, c, nil)
	res.Apply(func(i, j int, v float64) float64 {
		return v*s.scale[j] + s.min[j]
	}, x)
	return res, nil
}

func (s *MinMax) UnmarshalJSON(data []byte) error {
	type artifact MinMax
	a := artifact{FeatureRange: [2]float64{0, 1}}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = MinMax(a)
	return s.init()
}

// Load reads a fitted scaler artifact.
func Load(path string) (*MinMax, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := NewMinMax()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("unable to decode scaler %s, %w", path, err)
	}
	return s, nil
}

// Save writes the fitted scaler artifact.
func (s *MinMax) Save(path string) error {
	if s.scale == nil {
		return ErrNotFitted
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
