package rollout

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Aggregate sums the forecasts of all regions per month. The output is sorted by month and
// each sum adds the regions in record order.
func Aggregate(records []Record) []ProvinceRecord {
	type sums struct {
		date        time.Time
		a, b, blend []float64
	}

	byDate := make(map[int64]*sums)
	for _, rec := range records {
		key := rec.Date.Unix()
		s, exists := byDate[key]
		if !exists {
			s = &sums{date: rec.Date}
			byDate[key] = s
		}
		s.a = append(s.a, rec.PredA)
		s.b = append(s.b, rec.PredB)
		s.blend = append(s.blend, rec.Blend)
	}

	res := make([]ProvinceRecord, 0, len(byDate))
	for _, s := range byDate {
		res = append(res, ProvinceRecord{
			Date:     s.date,
			SumA:     floats.Sum(s.a),
			SumB:     floats.Sum(s.b),
			SumBlend: floats.Sum(s.blend),
		})
	}
	slices.SortFunc(res, func(x, y ProvinceRecord) int {
		return x.Date.Compare(y.Date)
	})
	return res
}
