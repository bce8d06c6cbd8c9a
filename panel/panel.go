// Package panel holds the historical region-by-month observations that the forecaster
// is trained on and rolls forward from.
package panel

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

// Column names of the source dataset.
const (
	ColDate        = "Tanggal"
	ColRegion      = "Kabupaten_Kota"
	ColYear        = "Tahun"
	ColMonth       = "Bulan"
	ColLatitude    = "Latitude_dd"
	ColLongitude   = "Longitude_dd"
	ColTarget      = "Produksi_Padi_Ton_clean"
	ColTemperature = "Suhu_Rata_C_clean"
	ColRainfall    = "Curah_Hujan_mm_clean"
	ColHumidity    = "Kelembapan_Persen_clean"
)

// Covariates are the climate columns in their canonical order.
var Covariates = []string{ColTemperature, ColRainfall, ColHumidity}

var (
	ErrNoRows             = errors.New("no panel rows")
	ErrNoRegion           = errors.New("row has no region")
	ErrUnknownRegion      = errors.New("unknown region")
	ErrUnknownColumn      = errors.New("unknown column")
	ErrNonMonotonic       = errors.New("dates are not strictly increasing")
	ErrGappedHistory      = errors.New("dates are not contiguous months")
	ErrNotMonthStart      = errors.New("date is not the first of a month")
	ErrDatasetLenMismatch = errors.New("column has a different length than time")
	ErrRowOutOfBounds     = errors.New("row is out of bounds")
	ErrEmptyDate          = errors.New("empty date")
	ErrUnknownDateFormat  = errors.New("unknown date format")
)

// Row is one (region, month) observation of the source dataset.
type Row struct {
	Date        Date   `csv:"Tanggal"`
	Region      string `csv:"Kabupaten_Kota"`
	Year        int    `csv:"Tahun"`
	Month       int    `csv:"Bulan"`
	Latitude    Float  `csv:"Latitude_dd"`
	Longitude   Float  `csv:"Longitude_dd"`
	Target      Float  `csv:"Produksi_Padi_Ton_clean"`
	Temperature Float  `csv:"Suhu_Rata_C_clean"`
	Rainfall    Float  `csv:"Curah_Hujan_mm_clean"`
	Humidity    Float  `csv:"Kelembapan_Persen_clean"`
}

func (r Row) value(col string) float64 {
	switch col {
	case ColTarget:
		return float64(r.Target)
	case ColTemperature:
		return float64(r.Temperature)
	case ColRainfall:
		return float64(r.Rainfall)
	case ColHumidity:
		return float64(r.Humidity)
	}
	return math.NaN()
}

// Panel is the full historical dataset split into region groups. Regions keep the
// order in which they first appear in the input rows.
type Panel struct {
	regions []string
	series  map[string]*Series
	endTime time.Time
}

// New groups rows by region, sorts each group by date and validates that every group
// is a contiguous monthly series.
func New(rows []Row) (*Panel, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	var regions []string
	grouped := make(map[string][]Row)
	for i, r := range rows {
		if r.Region == "" {
			return nil, fmt.Errorf("at row %d, %w", i, ErrNoRegion)
		}
		if _, exists := grouped[r.Region]; !exists {
			regions = append(regions, r.Region)
		}
		grouped[r.Region] = append(grouped[r.Region], r)
	}

	p := &Panel{
		regions: regions,
		series:  make(map[string]*Series, len(regions)),
	}
	cols := append([]string{ColTarget}, Covariates...)
	for _, region := range regions {
		group := grouped[region]
		slices.SortStableFunc(group, func(a, b Row) int {
			return a.Date.Compare(b.Date.Time)
		})

		t := make([]time.Time, len(group))
		data := make(map[string][]float64, len(cols))
		for _, col := range cols {
			data[col] = make([]float64, len(group))
		}
		for i, r := range group {
			t[i] = r.Date.Time
			for _, col := range cols {
				data[col][i] = r.value(col)
			}
		}

		s, err := NewSeries(region, t, data)
		if err != nil {
			return nil, err
		}
		p.series[region] = s
		if s.EndTime().After(p.endTime) {
			p.endTime = s.EndTime()
		}
	}
	return p, nil
}

// NewFromSeries builds a panel out of already validated region series.
func NewFromSeries(series ...*Series) (*Panel, error) {
	if len(series) == 0 {
		return nil, ErrNoRows
	}
	p := &Panel{
		series: make(map[string]*Series, len(series)),
	}
	for _, s := range series {
		if s == nil || s.Region == "" {
			return nil, ErrNoRegion
		}
		if _, exists := p.series[s.Region]; !exists {
			p.regions = append(p.regions, s.Region)
		}
		p.series[s.Region] = s
		if s.EndTime().After(p.endTime) {
			p.endTime = s.EndTime()
		}
	}
	return p, nil
}

// Regions returns the region identifiers in panel order.
func (p *Panel) Regions() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.regions)
}

// Series returns the region group of a region.
func (p *Panel) Series(region string) (*Series, error) {
	if p == nil {
		return nil, ErrNoRows
	}
	s, exists := p.series[region]
	if !exists {
		return nil, fmt.Errorf("%q, %w", region, ErrUnknownRegion)
	}
	return s, nil
}

// Len returns the number of regions.
func (p *Panel) Len() int {
	if p == nil {
		return 0
	}
	return len(p.regions)
}

// EndTime is the latest month observed across all regions.
func (p *Panel) EndTime() time.Time {
	if p == nil {
		return time.Time{}
	}
	return p.endTime
}
