// Package rollout turns a one step ahead regressor pair into a multi month forecaster by
// feeding each blended prediction back into the region history before predicting the
// next month.
package rollout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aouyang1/go-ricecast/feature"
	"github.com/aouyang1/go-ricecast/models"
	"github.com/aouyang1/go-ricecast/panel"
	"github.com/aouyang1/go-ricecast/scaler"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInsufficientHistory = errors.New("region has fewer historical months than the lag depth")
	ErrRegionNotAligned    = errors.New("region does not end on the last historical month")
	ErrNoScaler            = errors.New("no fitted scaler")
	ErrNoDates             = errors.New("no forecast dates")
)

// Engine rolls every region of a panel forward with two models and their blend. The
// schema, scaler and models are read only for the lifetime of the engine.
type Engine struct {
	opt    *Options
	schema *feature.Schema
	scaler *scaler.MinMax
	modelA *models.Adapter
	modelB *models.Adapter
	log    zerolog.Logger
}

// New validates that the scaler and both models agree with the schema and that the lag
// depth is the one the schema was built with.
func New(
	schema *feature.Schema,
	sc *scaler.MinMax,
	modelA, modelB models.Regressor,
	opt *Options,
	log zerolog.Logger,
) (*Engine, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, feature.ErrEmptySchema
	}
	if err := schema.CheckLagDepth(opt.LagDepth); err != nil {
		return nil, err
	}
	if sc == nil || sc.Width() == 0 {
		return nil, ErrNoScaler
	}
	if err := schema.Equal(sc.FeatureNames); err != nil {
		return nil, fmt.Errorf("scaler, %w", err)
	}

	a, err := models.NewAdapter("model_a", modelA, schema)
	if err != nil {
		return nil, err
	}
	b, err := models.NewAdapter("model_b", modelB, schema)
	if err != nil {
		return nil, err
	}

	return &Engine{
		opt:    opt,
		schema: schema,
		scaler: sc,
		modelA: a,
		modelB: b,
		log:    log.With().Str("component", "rollout.engine").Logger(),
	}, nil
}

// Options returns a copy of the validated engine options.
func (e *Engine) Options() Options {
	return *e.opt
}

// Dates returns the forecast months that follow the last historical month of the panel.
func (e *Engine) Dates(p *panel.Panel) []time.Time {
	return panel.NextMonths(p.EndTime(), e.opt.Horizon)
}

// Run forecasts every region of the panel. All regions must end on the panel's last
// month. The first error aborts the run.
func (e *Engine) Run(ctx context.Context, p *panel.Panel) (*Results, error) {
	if p.Len() == 0 {
		return nil, panel.ErrNoRows
	}
	end := p.EndTime()
	dates := e.Dates(p)
	regions := p.Regions()

	series := make([]*panel.Series, len(regions))
	for i, region := range regions {
		s, err := p.Series(region)
		if err != nil {
			return nil, err
		}
		if !s.EndTime().Equal(end) {
			return nil, fmt.Errorf(
				"region %q ends on %s, panel ends on %s, %w",
				region, s.EndTime().Format(panel.DateLayout), end.Format(panel.DateLayout), ErrRegionNotAligned,
			)
		}
		series[i] = s
	}

	e.log.Info().
		Int("regions", len(regions)).
		Str("start", dates[0].Format(panel.DateLayout)).
		Int("horizon", len(dates)).
		Str("clamp", string(e.opt.Clamp)).
		Str("climate_fill", string(e.opt.ClimateFill)).
		Msg("starting rollout")

	out := make([][]Record, len(series))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opt.Parallelization)
	for i, s := range series {
		g.Go(func() error {
			recs, err := e.RunRegion(gctx, s, dates)
			if err != nil {
				return err
			}
			out[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Results{
		Dates:   dates,
		Regions: regions,
		Clamp:   e.opt.Clamp,
		Records: make([]Record, 0, len(regions)*len(dates)),
	}
	for _, recs := range out {
		res.Records = append(res.Records, recs...)
	}
	e.log.Info().Int("records", len(res.Records)).Msg("rollout complete")
	return res, nil
}

// RunRegion forecasts one region for the given consecutive months, the first of which
// must follow the region's last historical month. The region series is never modified;
// the rollout works on a private copy that grows by one month per step.
func (e *Engine) RunRegion(ctx context.Context, s *panel.Series, dates []time.Time) ([]Record, error) {
	if len(dates) == 0 {
		return nil, ErrNoDates
	}
	if s.Len() < e.opt.LagDepth {
		return nil, fmt.Errorf(
			"region %q has %d months, lag depth is %d, %w",
			s.Region, s.Len(), e.opt.LagDepth, ErrInsufficientHistory,
		)
	}
	for i, date := range dates {
		if expected := panel.AddMonths(s.EndTime(), i+1); !date.Equal(expected) {
			return nil, fmt.Errorf(
				"region %q forecast month %d is %s, expected %s, %w",
				s.Region, i, date.Format(panel.DateLayout), expected.Format(panel.DateLayout), ErrRegionNotAligned,
			)
		}
	}

	filler, err := panel.NewFiller(s, e.opt.ClimateFill)
	if err != nil {
		return nil, err
	}

	log := e.log.With().
		Str("region", s.Region).
		Str("history_start", s.StartTime().Format(panel.DateLayout)).
		Logger()
	history := s.Copy(len(dates))
	records := make([]Record, 0, len(dates))
	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		idx := history.AppendMonth()
		if err := filler.Fill(history, idx); err != nil {
			return nil, err
		}

		rec, err := e.step(history, idx)
		if err != nil {
			return nil, fmt.Errorf("region %q at %s, %w", s.Region, date.Format(panel.DateLayout), err)
		}

		// the blend becomes history for every later month and is never revised
		if err := history.Set(panel.ColTarget, idx, rec.Blend); err != nil {
			return nil, err
		}
		records = append(records, rec)

		log.Debug().
			Str("date", date.Format(panel.DateLayout)).
			Float64("pred_a", rec.PredA).
			Float64("pred_b", rec.PredB).
			Float64("blend", rec.Blend).
			Msg("forecast step")
	}

	log.Info().Int("steps", len(records)).Msg("region rolled out")
	return records, nil
}

// step predicts the month at row idx of history from features rebuilt over all rows.
func (e *Engine) step(history *panel.Series, idx int) (Record, error) {
	set, err := feature.Build(history, e.opt.LagDepth)
	if err != nil {
		return Record{}, err
	}
	row, err := set.Row(idx, e.schema)
	if err != nil {
		return Record{}, err
	}
	scaled, err := e.scaler.Transform(row)
	if err != nil {
		return Record{}, err
	}

	a, err := e.modelA.PredictOne(scaled)
	if err != nil {
		return Record{}, err
	}
	b, err := e.modelB.PredictOne(scaled)
	if err != nil {
		return Record{}, err
	}
	blend := models.Blend(a, b)

	return Record{
		Region: history.Region,
		Date:   history.T[idx],
		PredA:  e.opt.Clamp.Apply(a),
		PredB:  e.opt.Clamp.Apply(b),
		Blend:  e.opt.Clamp.Apply(blend),
	}, nil
}
