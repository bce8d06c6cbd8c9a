// Package ricecast forecasts monthly rice production per region a year ahead by rolling
// two pre-trained one step regressors forward and blending them.
package ricecast

import (
	"context"
	"errors"
	"fmt"

	"github.com/aouyang1/go-ricecast/models"
	"github.com/aouyang1/go-ricecast/panel"
	"github.com/aouyang1/go-ricecast/rollout"
	"github.com/rs/zerolog"
)

var ErrNoBundle = errors.New("no trained artifacts")

// Forecaster runs the multi month rollout over a panel with a fixed set of trained
// artifacts.
type Forecaster struct {
	opt    *Options
	bundle *Bundle
	engine *rollout.Engine
	log    zerolog.Logger
}

// New creates a forecaster from trained artifacts. If no options are provided a default
// is used.
func New(bundle *Bundle, opt *Options, log zerolog.Logger) (*Forecaster, error) {
	if bundle == nil {
		return nil, ErrNoBundle
	}
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	engine, err := rollout.New(bundle.Schema, bundle.Scaler, bundle.ModelA, bundle.ModelB, opt.Rollout, log)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize rollout, %w", err)
	}
	return &Forecaster{
		opt:    opt,
		bundle: bundle,
		engine: engine,
		log:    log.With().Str("component", "ricecast.forecaster").Logger(),
	}, nil
}

// NewFromArtifacts loads the artifacts named in the options and creates a forecaster.
func NewFromArtifacts(opt *Options, log zerolog.Logger) (*Forecaster, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	bundle, err := LoadBundle(opt.Artifacts)
	if err != nil {
		return nil, err
	}
	return New(bundle, opt, log)
}

// Options returns the validated options of the forecaster.
func (f *Forecaster) Options() *Options {
	return f.opt
}

// Bundle returns the artifacts the forecaster was built with.
func (f *Forecaster) Bundle() *Bundle {
	return f.bundle
}

// Forecast rolls every region of the panel forward by the configured horizon.
func (f *Forecaster) Forecast(ctx context.Context, p *panel.Panel) (*rollout.Results, error) {
	res, err := f.engine.Run(ctx, p)
	if err != nil {
		return nil, err
	}
	f.log.Info().
		Int("regions", len(res.Regions)).
		Time("from", res.Dates[0]).
		Time("to", res.Dates[len(res.Dates)-1]).
		Msg("forecast complete")
	return res, nil
}

// Evaluate scores both models and their blend on the complete rows of the test years,
// scaled with the trained scaler.
func (f *Forecaster) Evaluate(p *panel.Panel) (*Evaluation, error) {
	split, err := NewSplit(p, f.bundle.Schema, f.bundle.Scaler, f.opt.TestYears)
	if err != nil {
		return nil, err
	}
	a, err := models.NewAdapter("model_a", f.bundle.ModelA, f.bundle.Schema)
	if err != nil {
		return nil, err
	}
	b, err := models.NewAdapter("model_b", f.bundle.ModelB, f.bundle.Schema)
	if err != nil {
		return nil, err
	}
	return Evaluate(split, a, b)
}
