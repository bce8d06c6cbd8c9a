package rollout

import (
	"errors"
	"fmt"

	"github.com/aouyang1/go-ricecast/feature"
	"github.com/aouyang1/go-ricecast/panel"
)

const (
	DefaultLagDepth = 12
	DefaultHorizon  = 12
)

// ClampPolicy decides whether predictions are floored at zero before they are recorded
// and fed back as history. One policy applies to a whole run.
type ClampPolicy string

const (
	ClampNonNegative ClampPolicy = "non_negative"
	ClampNone        ClampPolicy = "none"
)

var (
	ErrInvalidHorizon          = errors.New("horizon must be at least 1")
	ErrUnknownClampPolicy      = errors.New("unknown clamp policy")
	ErrNegativeParallelization = errors.New("parallelization cannot be negative")
)

// Validate checks that the policy is one of the known values.
func (c ClampPolicy) Validate() error {
	switch c {
	case ClampNonNegative, ClampNone:
		return nil
	}
	return fmt.Errorf("%q, %w", string(c), ErrUnknownClampPolicy)
}

// Apply floors v at zero under ClampNonNegative and returns it unchanged otherwise.
func (c ClampPolicy) Apply(v float64) float64 {
	if c == ClampNonNegative && v < 0 {
		return 0
	}
	return v
}

// Options configures a rollout.
type Options struct {
	// LagDepth is the number of months of lags built for every column. It must match the
	// deepest lag of the feature schema.
	LagDepth int `json:"lag_depth"`

	// Horizon is the number of future months forecasted per region.
	Horizon int `json:"horizon"`

	Clamp       ClampPolicy       `json:"clamp"`
	ClimateFill panel.ClimateFill `json:"climate_fill"`

	// Parallelization sets how many regions are rolled out at once. Each region stays
	// sequential internally.
	Parallelization int `json:"parallelization"`
}

// NewDefaultOptions returns a 12 month rollout with 12 months of lags, non-negative
// clamping and a single worker.
//
// Synthesized months default to FillClimatology so the temperature, rainfall and humidity
// features of future rows carry the region's calendar month means. This departs from a
// rollout that writes only the blended target into each new month and leaves every other
// raw column missing; set ClimateFill to panel.FillNone for that behavior, which then
// requires a schema with no current or lagged covariate reaching into future months.
func NewDefaultOptions() *Options {
	return &Options{
		LagDepth:        DefaultLagDepth,
		Horizon:         DefaultHorizon,
		Clamp:           ClampNonNegative,
		ClimateFill:     panel.FillClimatology,
		Parallelization: 1,
	}
}

// Validate runs basic validation on the rollout options, filling in defaults for a nil
// receiver and a zero parallelization.
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if o.LagDepth < 1 {
		return nil, fmt.Errorf("lag depth %d, %w", o.LagDepth, feature.ErrInvalidLagDepth)
	}
	if o.Horizon < 1 {
		return nil, fmt.Errorf("horizon %d, %w", o.Horizon, ErrInvalidHorizon)
	}
	if err := o.Clamp.Validate(); err != nil {
		return nil, err
	}
	if err := o.ClimateFill.Validate(); err != nil {
		return nil, err
	}
	if o.Parallelization < 0 {
		return nil, ErrNegativeParallelization
	}
	if o.Parallelization == 0 {
		o.Parallelization = 1
	}
	return o, nil
}
