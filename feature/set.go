package feature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Set represents a mapping to each feature data keyed by the string representation
// of the feature. Every feature column has m rows.
type Set struct {
	m      int
	set    map[string][]float64
	labels []Feature
}

func NewSet() *Set {
	return &Set{
		set: make(map[string][]float64),
	}
}

// Len returns the number of rows in the set
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return s.m
}

// Set stores the data of a feature, replacing any previous data with the same label.
// Columns are zero padded or truncated so that all of them share the longest length.
func (s *Set) Set(f Feature, data []float64) *Set {
	if s.set == nil {
		s.set = make(map[string][]float64)
	}

	name := f.String()
	if _, exists := s.set[name]; !exists {
		s.labels = append(s.labels, f)
	}

	if len(data) > s.m {
		s.m = len(data)
		for label, prev := range s.set {
			s.set[label] = resize(prev, s.m)
		}
	}
	s.set[name] = resize(data, s.m)
	return s
}

// Get returns the data of a feature.
func (s *Set) Get(f Feature) ([]float64, bool) {
	if s == nil {
		return nil, false
	}
	data, exists := s.set[f.String()]
	return data, exists
}

// Labels returns every feature in insertion order.
func (s *Set) Labels() *Labels {
	if s == nil {
		return nil
	}
	labels := make([]Feature, len(s.labels))
	copy(labels, s.labels)
	return NewLabels(labels)
}

// Row extracts the feature vector of row i in schema order. A schema feature that the set
// does not hold is a schema mismatch and a missing value is reported with its name.
func (s *Set) Row(i int, schema *Schema) ([]float64, error) {
	if i < 0 || i >= s.Len() {
		return nil, fmt.Errorf("row %d of %d is out of bounds", i, s.Len())
	}
	row := make([]float64, 0, schema.Len())
	for _, f := range schema.Features() {
		data, exists := s.Get(f)
		if !exists {
			return nil, fmt.Errorf("%s is not produced, %w", f.String(), ErrSchemaMismatch)
		}
		val := data[i]
		if math.IsNaN(val) {
			return nil, fmt.Errorf("%s at row %d, %w", f.String(), i, ErrMissingValue)
		}
		row = append(row, val)
	}
	return row, nil
}

// Matrix returns the rows as a design matrix with one observation per matrix row and the
// columns in schema order.
func (s *Set) Matrix(rows []int, schema *Schema) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows selected, %w", ErrMissingValue)
	}
	n := schema.Len()
	obs := make([]float64, 0, len(rows)*n)
	for _, i := range rows {
		row, err := s.Row(i, schema)
		if err != nil {
			return nil, err
		}
		obs = append(obs, row...)
	}
	return mat.NewDense(len(rows), n, obs), nil
}

func resize(data []float64, m int) []float64 {
	if len(data) == m {
		return data
	}
	res := make([]float64, m)
	copy(res, data)
	return res
}
