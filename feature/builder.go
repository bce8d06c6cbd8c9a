package feature

import (
	"fmt"

	"github.com/aouyang1/go-ricecast/panel"
)

// Build computes every feature of every row of a region series. The target and each
// climate covariate present in the series get lags 1..lagDepth, the covariates are also
// passed through as raw columns and each row gets the month seasonality pair.
//
// Build never modifies s and always recomputes the columns over the whole series, so the
// result depends only on the series content. Training and rollout share this routine.
func Build(s *panel.Series, lagDepth int) (*Set, error) {
	if lagDepth < 1 {
		return nil, ErrInvalidLagDepth
	}
	if s.Len() == 0 {
		return nil, fmt.Errorf("region %q, %w", s.Region, panel.ErrNoRows)
	}

	set := NewSet()
	for _, col := range panel.Covariates {
		data, exists := s.Col(col)
		if !exists {
			continue
		}
		raw := make([]float64, len(data))
		copy(raw, data)
		set.Set(NewRaw(col), raw)
	}

	for _, col := range append([]string{panel.ColTarget}, panel.Covariates...) {
		data, exists := s.Col(col)
		if !exists {
			continue
		}
		for i := 1; i <= lagDepth; i++ {
			set.Set(NewLag(col, i), shift(data, i))
		}
	}

	for _, fcomp := range []FourierComp{FourierCompSin, FourierCompCos} {
		seas := NewSeasonality(MonthOfYear, fcomp)
		set.Set(seas, seas.generateMonthly(s.T))
	}
	return set, nil
}
