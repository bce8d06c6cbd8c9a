package panel

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ClimateFill decides which covariate values a synthesized future month carries. Future
// months have no observed climate, yet both the current-month covariates and, one step
// later, their lags are model inputs.
type ClimateFill string

const (
	// FillClimatology uses the region's historical mean for the same calendar month,
	// falling back to the region's overall historical mean.
	FillClimatology ClimateFill = "climatology"

	// FillPersistence repeats the most recent known value.
	FillPersistence ClimateFill = "persistence"

	// FillNone leaves covariates missing. Only usable with a schema that needs neither
	// current-month covariates nor covariate lags reaching into the future months.
	FillNone ClimateFill = "none"
)

var ErrUnknownClimateFill = errors.New("unknown climate fill policy")

// Validate checks that the policy is one of the known values.
func (c ClimateFill) Validate() error {
	switch c {
	case FillClimatology, FillPersistence, FillNone:
		return nil
	}
	return fmt.Errorf("%q, %w", string(c), ErrUnknownClimateFill)
}

// Filler writes covariate values into synthesized rows of a region series. Climatology
// statistics are taken from the history the filler was built with and never from
// synthesized rows.
type Filler struct {
	policy     ClimateFill
	monthly    map[string][12]float64
	overall    map[string]float64
	covariates []string
}

// NewFiller prepares a filler from the historical rows of s.
func NewFiller(s *Series, policy ClimateFill) (*Filler, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	f := &Filler{
		policy:  policy,
		monthly: make(map[string][12]float64),
		overall: make(map[string]float64),
	}
	for _, col := range Covariates {
		data, exists := s.Col(col)
		if !exists {
			continue
		}
		f.covariates = append(f.covariates, col)

		var byMonth [12][]float64
		var all []float64
		for i, v := range data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			m := int(s.T[i].Month()) - 1
			byMonth[m] = append(byMonth[m], v)
			all = append(all, v)
		}

		overall := math.NaN()
		if len(all) > 0 {
			overall = stat.Mean(all, nil)
		}
		var means [12]float64
		for m, vals := range byMonth {
			means[m] = overall
			if len(vals) > 0 {
				means[m] = stat.Mean(vals, nil)
			}
		}
		f.monthly[col] = means
		f.overall[col] = overall
	}
	return f, nil
}

// Fill sets the covariates of row i of s according to the policy.
func (f *Filler) Fill(s *Series, i int) error {
	if f.policy == FillNone {
		return nil
	}
	month := int(s.T[i].Month()) - 1
	for _, col := range f.covariates {
		var val float64
		switch f.policy {
		case FillClimatology:
			val = f.monthly[col][month]
		case FillPersistence:
			val = f.lastKnown(s, col, i)
		}
		if err := s.Set(col, i, val); err != nil {
			return err
		}
	}
	return nil
}

func (f *Filler) lastKnown(s *Series, col string, i int) float64 {
	for j := i - 1; j >= 0; j-- {
		if v := s.Value(col, j); !math.IsNaN(v) {
			return v
		}
	}
	return f.overall[col]
}
