package feature

import (
	"math"
	"testing"
	"time"

	"github.com/aouyang1/go-ricecast/panel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arithmeticSeries(t *testing.T, n int) *panel.Series {
	t.Helper()

	tSeries := panel.GenerateT(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), n)
	s, err := panel.NewSeries("Kab. Bogor", tSeries, map[string][]float64{
		panel.ColTarget:      panel.GenerateRamp(n, 100, 10),
		panel.ColTemperature: panel.GenerateRamp(n, 20, 0.5),
		panel.ColRainfall:    panel.GenerateRamp(n, 300, -1),
		panel.ColHumidity:    panel.GenerateConst(n, 80),
	})
	require.NoError(t, err)
	return s
}

func TestBuildLags(t *testing.T) {
	s := arithmeticSeries(t, 30)
	set, err := Build(s, 12)
	require.NoError(t, err)
	require.Equal(t, 30, set.Len())

	target, _ := s.Col(panel.ColTarget)
	for k := 1; k <= 12; k++ {
		lag, exists := set.Get(NewLag(panel.ColTarget, k))
		require.True(t, exists)
		for n := 0; n < s.Len(); n++ {
			if n < k {
				assert.True(t, math.IsNaN(lag[n]), "lag %d row %d", k, n)
				continue
			}
			assert.Equal(t, target[n-k], lag[n], "lag %d row %d", k, n)
		}
	}

	rain, _ := s.Col(panel.ColRainfall)
	lag3, exists := set.Get(NewLag(panel.ColRainfall, 3))
	require.True(t, exists)
	assert.Equal(t, rain[7], lag3[10])

	raw, exists := set.Get(NewRaw(panel.ColHumidity))
	require.True(t, exists)
	assert.Equal(t, 80.0, raw[0])
}

func TestBuildSeasonality(t *testing.T) {
	s := arithmeticSeries(t, 24)
	set, err := Build(s, 1)
	require.NoError(t, err)

	sin, exists := set.Get(NewSeasonality(MonthOfYear, FourierCompSin))
	require.True(t, exists)
	cos, exists := set.Get(NewSeasonality(MonthOfYear, FourierCompCos))
	require.True(t, exists)

	for i := range sin {
		assert.GreaterOrEqual(t, sin[i], -1.0)
		assert.LessOrEqual(t, sin[i], 1.0)
		assert.GreaterOrEqual(t, cos[i], -1.0)
		assert.LessOrEqual(t, cos[i], 1.0)
		assert.InDelta(t, 1.0, sin[i]*sin[i]+cos[i]*cos[i], 1e-12)
	}

	// january is month 1, december wraps around to the start of the cycle
	assert.InDelta(t, 0.5, sin[0], 1e-12)
	assert.InDelta(t, 0.0, sin[11], 1e-12)
	assert.InDelta(t, 1.0, cos[11], 1e-12)
}

func TestBuildPureAndDeterministic(t *testing.T) {
	s := arithmeticSeries(t, 20)
	before := s.Copy(0)

	first, err := Build(s, 12)
	require.NoError(t, err)
	assert.Equal(t, before, s)

	// growing the history and rebuilding yields identical columns on the shared prefix
	grown := s.Copy(1)
	idx := grown.AppendMonth()
	require.NoError(t, grown.Set(panel.ColTarget, idx, 42))
	second, err := Build(grown, 12)
	require.NoError(t, err)

	for _, f := range first.Labels().Labels() {
		a, _ := first.Get(f)
		b, _ := second.Get(f)
		for i := range a {
			if math.IsNaN(a[i]) {
				assert.True(t, math.IsNaN(b[i]))
				continue
			}
			assert.Equal(t, a[i], b[i], f.String())
		}
	}

	lag1, _ := second.Get(NewLag(panel.ColTarget, 1))
	target, _ := s.Col(panel.ColTarget)
	assert.Equal(t, target[len(target)-1], lag1[idx])

	again, err := Build(s, 12)
	require.NoError(t, err)
	assert.Equal(t, first.Labels().Names(), again.Labels().Names())
}

func TestBuildErrors(t *testing.T) {
	s := arithmeticSeries(t, 5)
	_, err := Build(s, 0)
	assert.ErrorIs(t, err, ErrInvalidLagDepth)
}

func TestSetRowWithSchema(t *testing.T) {
	schema, err := DefaultSchema(12)
	require.NoError(t, err)

	testData := map[string]struct {
		n   int
		row int
		err error
	}{
		"full history": {
			n:   13,
			row: 12,
		},
		"insufficient history": {
			n:   12,
			row: 11,
			err: ErrMissingValue,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			set, err := Build(arithmeticSeries(t, td.n), 12)
			require.NoError(t, err)

			row, err := set.Row(td.row, schema)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			require.Len(t, row, schema.Len())

			idx, exists := schema.Index(NewLag(panel.ColTarget, 12))
			require.True(t, exists)
			assert.Equal(t, 100.0, row[idx])
		})
	}
}

func TestSetRowSchemaMismatch(t *testing.T) {
	tSeries := panel.GenerateT(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), 3)
	s, err := panel.NewSeries("Kab. Bogor", tSeries, map[string][]float64{
		panel.ColTarget: {1, 2, 3},
	})
	require.NoError(t, err)

	set, err := Build(s, 1)
	require.NoError(t, err)

	schema, err := NewSchema([]string{"Produksi_Padi_Ton_clean_lag_1", "Suhu_Rata_C_clean"})
	require.NoError(t, err)

	_, err = set.Row(2, schema)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestSetMatrix(t *testing.T) {
	schema, err := NewSchema([]string{"Produksi_Padi_Ton_clean_lag_1", "Month_cos"})
	require.NoError(t, err)

	set, err := Build(arithmeticSeries(t, 4), 1)
	require.NoError(t, err)

	x, err := set.Matrix([]int{1, 3}, schema)
	require.NoError(t, err)
	r, c := x.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 100.0, x.At(0, 0))
	assert.Equal(t, 120.0, x.At(1, 0))
	assert.InDelta(t, math.Cos(2*math.Pi*4/12), x.At(1, 1), 1e-12)

	_, err = set.Matrix([]int{0}, schema)
	assert.ErrorIs(t, err, ErrMissingValue)
}
