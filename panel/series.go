package panel

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Series is the region group of a panel: every column of a single region ordered by
// month. The target and the climate covariates are stored column oriented so the
// feature builder can shift them without copying rows.
type Series struct {
	Region string
	T      []time.Time

	cols map[string][]float64
}

// NewSeries validates and copies the input into a Series. Times must be strictly
// increasing, contiguous month starts and every column must match the time length.
func NewSeries(region string, t []time.Time, cols map[string][]float64) (*Series, error) {
	if len(t) == 0 {
		return nil, fmt.Errorf("region %q, %w", region, ErrNoRows)
	}
	if _, exists := cols[ColTarget]; !exists {
		return nil, fmt.Errorf("region %q missing %s, %w", region, ColTarget, ErrUnknownColumn)
	}
	if err := ValidateMonthly(t); err != nil {
		return nil, fmt.Errorf("region %q, %w", region, err)
	}

	s := &Series{
		Region: region,
		T:      slices.Clone(t),
		cols:   make(map[string][]float64, len(cols)),
	}
	for name, data := range cols {
		if len(data) != len(t) {
			return nil, fmt.Errorf(
				"region %q column %s has length of %d, but time has a length of %d, %w",
				region, name, len(data), len(t), ErrDatasetLenMismatch,
			)
		}
		s.cols[name] = slices.Clone(data)
	}
	return s, nil
}

// ValidateMonthly checks that t is a strictly increasing run of contiguous month starts.
func ValidateMonthly(t []time.Time) error {
	for i := 0; i < len(t); i++ {
		if !IsMonthStart(t[i]) {
			return fmt.Errorf("%s at %d, %w", t[i].Format(DateLayout), i, ErrNotMonthStart)
		}
		if i == 0 {
			continue
		}
		if !t[i].After(t[i-1]) {
			return fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMonotonic)
		}
		if gap := MonthsBetween(t[i-1], t[i]); gap != 1 {
			return fmt.Errorf(
				"%d months between %s and %s, %w",
				gap, t[i-1].Format(DateLayout), t[i].Format(DateLayout), ErrGappedHistory,
			)
		}
	}
	return nil
}

// Len returns the number of months in the series
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.T)
}

// StartTime returns the first month of the series
func (s *Series) StartTime() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.T[0]
}

// EndTime returns the last month of the series
func (s *Series) EndTime() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.T[len(s.T)-1]
}

// Col returns the backing slice of a column. Callers must not modify it.
func (s *Series) Col(name string) ([]float64, bool) {
	if s == nil {
		return nil, false
	}
	data, exists := s.cols[name]
	return data, exists
}

// Value returns the value of a column at row i or NaN if either does not exist.
func (s *Series) Value(name string, i int) float64 {
	data, exists := s.Col(name)
	if !exists || i < 0 || i >= len(data) {
		return math.NaN()
	}
	return data[i]
}

// Set writes a value into a column at row i.
func (s *Series) Set(name string, i int, val float64) error {
	data, exists := s.Col(name)
	if !exists {
		return fmt.Errorf("%s, %w", name, ErrUnknownColumn)
	}
	if i < 0 || i >= len(data) {
		return fmt.Errorf("row %d of %d, %w", i, len(data), ErrRowOutOfBounds)
	}
	data[i] = val
	return nil
}

// Copy returns a deep copy of the series with room for extra additional months so
// that subsequent appends do not reallocate.
func (s *Series) Copy(extra int) *Series {
	if extra < 0 {
		extra = 0
	}
	n := len(s.T)
	t := make([]time.Time, n, n+extra)
	copy(t, s.T)

	cols := make(map[string][]float64, len(s.cols))
	for name, data := range s.cols {
		c := make([]float64, n, n+extra)
		copy(c, data)
		cols[name] = c
	}
	return &Series{
		Region: s.Region,
		T:      t,
		cols:   cols,
	}
}

// AppendMonth appends the month following the last one with every column missing and
// returns the index of the new row.
func (s *Series) AppendMonth() int {
	next := AddMonths(s.EndTime(), 1)
	s.T = append(s.T, next)
	for name, data := range s.cols {
		s.cols[name] = append(data, math.NaN())
	}
	return len(s.T) - 1
}
