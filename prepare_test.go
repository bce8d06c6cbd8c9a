package ricecast

import (
	"testing"
	"time"

	"github.com/aouyang1/go-ricecast/feature"
	"github.com/aouyang1/go-ricecast/panel"
	"github.com/aouyang1/go-ricecast/scaler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// testPanel simulates two regions from 2018-01 through 2024-12.
func testPanel(t testing.TB) *panel.Panel {
	t.Helper()
	bogor, err := panel.GenerateSeries("Kab. Bogor", month(2018, 1), 84, 1000, 1)
	require.NoError(t, err)
	bandung, err := panel.GenerateSeries("Kota Bandung", month(2018, 1), 84, 400, 2)
	require.NoError(t, err)
	p, err := panel.NewFromSeries(bogor, bandung)
	require.NoError(t, err)
	return p
}

func TestPrepare(t *testing.T) {
	prep, err := Prepare(testPanel(t), nil)
	require.NoError(t, err)

	assert.Equal(t, 53, prep.Schema.Len())
	assert.Equal(t, prep.Schema.Names(), prep.Scaler.FeatureNames)

	// 2018 has no complete lag window in either region
	assert.Equal(t, 24, prep.Dropped)
	assert.Equal(t, 96, prep.Train.Len())
	assert.Equal(t, 48, prep.Test.Len())

	assert.Equal(t, month(2019, 1), prep.Train.Dates[0])
	assert.Equal(t, "Kab. Bogor", prep.Train.Regions[0])
	assert.Equal(t, month(2023, 1), prep.Test.Dates[0])
	assert.Equal(t, "Kota Bandung", prep.Test.Regions[len(prep.Test.Regions)-1])

	r, c := prep.Train.X.Dims()
	assert.Equal(t, 96, r)
	assert.Equal(t, 53, c)
	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, prep.Train.X)
		for _, v := range col {
			assert.GreaterOrEqual(t, v, -1e-9)
			assert.LessOrEqual(t, v, 1+1e-9)
		}
	}
}

func TestPrepareRowsMatchBuild(t *testing.T) {
	p := testPanel(t)
	prep, err := Prepare(p, nil)
	require.NoError(t, err)

	s, err := p.Series("Kab. Bogor")
	require.NoError(t, err)
	target, _ := s.Col(panel.ColTarget)

	// first test row is 2023-01 of the first region
	assert.InDelta(t, target[60], prep.Test.Y[0], 1e-12)

	set, err := feature.Build(s, 12)
	require.NoError(t, err)
	row, err := set.Row(60, prep.Schema)
	require.NoError(t, err)
	expected, err := prep.Scaler.Transform(row)
	require.NoError(t, err)
	assert.InDeltaSlice(t, expected, mat.Row(nil, 0, prep.Test.X), 1e-12)
}

func TestPrepareErrors(t *testing.T) {
	testData := map[string]struct {
		opt func() *Options
		p   func(t *testing.T) *panel.Panel
		err error
	}{
		"no training rows": {
			opt: func() *Options {
				opt := NewDefaultOptions()
				opt.TrainYears = YearRange{From: 2000, To: 2001}
				return opt
			},
			err: scaler.ErrNoTrainingData,
		},
		"inverted years": {
			opt: func() *Options {
				opt := NewDefaultOptions()
				opt.TestYears = YearRange{From: 2024, To: 2023}
				return opt
			},
			err: ErrInvalidYearRange,
		},
		"invalid lag depth": {
			opt: func() *Options {
				opt := NewDefaultOptions()
				opt.Rollout.LagDepth = 0
				return opt
			},
			err: feature.ErrInvalidLagDepth,
		},
		"no panel": {
			opt: NewDefaultOptions,
			p: func(t *testing.T) *panel.Panel {
				return nil
			},
			err: panel.ErrNoRows,
		},
		"missing covariate column": {
			opt: NewDefaultOptions,
			p: func(t *testing.T) *panel.Panel {
				s, err := panel.NewSeries("Kab. Bogor", panel.GenerateT(month(2018, 1), 36), map[string][]float64{
					panel.ColTarget: panel.GenerateConst(36, 10),
				})
				require.NoError(t, err)
				p, err := panel.NewFromSeries(s)
				require.NoError(t, err)
				return p
			},
			err: feature.ErrSchemaMismatch,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			p := testPanel(t)
			if td.p != nil {
				p = td.p(t)
			}
			_, err := Prepare(p, td.opt())
			assert.ErrorIs(t, err, td.err)
		})
	}
}
