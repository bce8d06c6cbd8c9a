package rollout

import (
	"time"
)

// Record is the forecast of one region for one future month.
type Record struct {
	Region string    `json:"region"`
	Date   time.Time `json:"date"`
	PredA  float64   `json:"pred_a"`
	PredB  float64   `json:"pred_b"`
	Blend  float64   `json:"blend"`
}

// ProvinceRecord is the sum of every region's forecast for one future month.
type ProvinceRecord struct {
	Date     time.Time `json:"date"`
	SumA     float64   `json:"sum_a"`
	SumB     float64   `json:"sum_b"`
	SumBlend float64   `json:"sum_blend"`
}

// Results holds the per region forecasts of a run in panel region order followed by
// forecast month.
type Results struct {
	Dates   []time.Time `json:"dates"`
	Regions []string    `json:"regions"`
	Clamp   ClampPolicy `json:"clamp"`
	Records []Record    `json:"records"`
}

// Region returns the records of a single region in month order.
func (r *Results) Region(region string) []Record {
	if r == nil {
		return nil
	}
	var res []Record
	for _, rec := range r.Records {
		if rec.Region == region {
			res = append(res, rec)
		}
	}
	return res
}

// Province aggregates the run into province totals.
func (r *Results) Province() []ProvinceRecord {
	if r == nil {
		return nil
	}
	return Aggregate(r.Records)
}
