package panel

import (
	"math"
	"math/rand/v2"
	"time"
)

// GenerateT returns n consecutive month starts beginning at start.
func GenerateT(start time.Time, n int) []time.Time {
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, AddMonths(start, i))
	}
	return t
}

// Values is a simulated column used to build synthetic regions.
type Values []float64

func (v Values) Add(src Values) Values {
	for i := range v {
		v[i] += src[i]
	}
	return v
}

// GenerateConst returns n copies of val.
func GenerateConst(n int, val float64) Values {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Values(y)
}

// GenerateRamp returns start, start+step, start+2*step, ...
func GenerateRamp(n int, start, step float64) Values {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, start+step*float64(i))
	}
	return Values(y)
}

// GenerateAnnualWave returns a yearly sine cycle keyed by calendar month with its peak
// shifted by offset months.
func GenerateAnnualWave(t []time.Time, amp float64, offset int) Values {
	y := make([]float64, 0, len(t))
	for _, tPnt := range t {
		m := float64(int(tPnt.Month()) - 1 + offset)
		y = append(y, amp*math.Sin(2.0*math.Pi*m/12.0))
	}
	return Values(y)
}

// GenerateNoise returns normally distributed noise scaled by scale using the seeded source.
func GenerateNoise(n int, scale float64, seed uint64) Values {
	r := rand.New(rand.NewPCG(seed, seed))
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, r.NormFloat64()*scale)
	}
	return Values(y)
}

// GenerateSeries builds a region with a seasonal target and seasonal climate covariates.
func GenerateSeries(region string, start time.Time, n int, base float64, seed uint64) (*Series, error) {
	t := GenerateT(start, n)
	cols := map[string][]float64{
		ColTarget: GenerateConst(n, base).
			Add(GenerateAnnualWave(t, base/3.0, 2)).
			Add(GenerateNoise(n, base/50.0, seed)),
		ColTemperature: GenerateConst(n, 27.0).
			Add(GenerateAnnualWave(t, 1.5, 0)),
		ColRainfall: GenerateConst(n, 180.0).
			Add(GenerateAnnualWave(t, 150.0, 3)),
		ColHumidity: GenerateConst(n, 80.0).
			Add(GenerateAnnualWave(t, 6.0, 3)),
	}
	for i, v := range cols[ColTarget] {
		cols[ColTarget][i] = math.Max(v, 0)
	}
	return NewSeries(region, t, cols)
}
