package rollout

import (
	"context"
	"fmt"
	"testing"

	"github.com/aouyang1/go-ricecast/feature"
	"github.com/aouyang1/go-ricecast/models"
	"github.com/aouyang1/go-ricecast/panel"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
)

var benchRunRes *Results

func BenchmarkRun(b *testing.B) {
	schema, err := feature.DefaultSchema(DefaultLagDepth)
	if err != nil {
		panic(err)
	}

	series := make([]*panel.Series, 0, 27)
	for i := range cap(series) {
		s, err := panel.GenerateSeries(fmt.Sprintf("region_%02d", i), month(2018, 1), 84, 10000, uint64(i))
		if err != nil {
			panic(err)
		}
		series = append(series, s)
	}
	p, err := panel.NewFromSeries(series...)
	if err != nil {
		panic(err)
	}

	coef := make([]float64, schema.Len())
	for j := range coef {
		coef[j] = 1.0 / float64(len(coef))
	}
	opt := NewDefaultOptions()
	opt.Parallelization = 4
	e, err := New(
		schema,
		identityScaler(b, schema),
		&models.Linear{Intercept: 1, Coef: coef},
		&models.Linear{Intercept: -1, Coef: coef},
		opt,
		zerolog.Nop(),
	)
	if err != nil {
		panic(err)
	}

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	for b.Loop() {
		benchRunRes, err = e.Run(context.Background(), p)
		if err != nil {
			panic(err)
		}
	}
}
