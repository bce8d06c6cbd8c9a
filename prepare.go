package ricecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-ricecast/feature"
	rmat "github.com/aouyang1/go-ricecast/mat"
	"github.com/aouyang1/go-ricecast/panel"
	"github.com/aouyang1/go-ricecast/scaler"
	"gonum.org/v1/gonum/mat"
)

var ErrNoTestRows = errors.New("no complete rows in the test years")

// Split is a scaled design matrix with its target and the region and month of every row.
type Split struct {
	Regions []string
	Dates   []time.Time
	X       *mat.Dense
	Y       []float64
}

// Len returns the number of rows.
func (s *Split) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Y)
}

// Prepared is the training set handed to the external trainers together with the schema
// and scaler that inference replays.
type Prepared struct {
	Schema  *feature.Schema
	Scaler  *scaler.MinMax
	Train   *Split
	Test    *Split
	Dropped int
}

type observation struct {
	region string
	date   time.Time
	row    []float64
	y      float64
}

// Prepare builds the features of every region with the same routine as the rollout, drops
// rows with a missing feature or target, splits them by year and fits the scaler on the
// training rows only.
func Prepare(p *panel.Panel, opt *Options) (*Prepared, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	schema, err := feature.DefaultSchema(opt.Rollout.LagDepth)
	if err != nil {
		return nil, err
	}

	groups, dropped, err := observations(p, schema, opt.Rollout.LagDepth, opt.TrainYears, opt.TestYears)
	if err != nil {
		return nil, err
	}
	train, test := groups[0], groups[1]

	trainRows := make([][]float64, 0, len(train))
	for _, obs := range train {
		trainRows = append(trainRows, obs.row)
	}
	sc := scaler.NewMinMax()
	if err := sc.Fit(schema.Names(), trainRows); err != nil {
		return nil, fmt.Errorf("unable to fit scaler on training years, %w", err)
	}

	trainSplit, err := newSplit(train, sc)
	if err != nil {
		return nil, err
	}
	testSplit, err := newSplit(test, sc)
	if err != nil {
		return nil, err
	}
	return &Prepared{
		Schema:  schema,
		Scaler:  sc,
		Train:   trainSplit,
		Test:    testSplit,
		Dropped: dropped,
	}, nil
}

// NewSplit builds the complete rows of the given years with a trained schema and scaler.
func NewSplit(p *panel.Panel, schema *feature.Schema, sc *scaler.MinMax, years YearRange) (*Split, error) {
	if err := years.Validate(); err != nil {
		return nil, err
	}
	groups, _, err := observations(p, schema, schema.LagDepth(), years)
	if err != nil {
		return nil, err
	}
	return newSplit(groups[0], sc)
}

// observations collects the complete rows of every region into one group per year range.
// A row whose year falls in several ranges goes to the first one.
func observations(p *panel.Panel, schema *feature.Schema, lagDepth int, ranges ...YearRange) ([][]observation, int, error) {
	if p == nil || p.Len() == 0 {
		return nil, 0, panel.ErrNoRows
	}

	groups := make([][]observation, len(ranges))
	var dropped int
	for _, region := range p.Regions() {
		s, err := p.Series(region)
		if err != nil {
			return nil, 0, err
		}
		set, err := feature.Build(s, lagDepth)
		if err != nil {
			return nil, 0, fmt.Errorf("region %q, %w", region, err)
		}
		target, _ := s.Col(panel.ColTarget)

		for i := 0; i < s.Len(); i++ {
			group := -1
			for g, years := range ranges {
				if years.Contains(s.T[i].Year()) {
					group = g
					break
				}
			}
			if group < 0 {
				continue
			}

			row, err := set.Row(i, schema)
			if err != nil {
				if errors.Is(err, feature.ErrMissingValue) {
					dropped++
					continue
				}
				return nil, 0, fmt.Errorf("region %q, %w", region, err)
			}
			if target == nil || math.IsNaN(target[i]) {
				dropped++
				continue
			}
			groups[group] = append(groups[group], observation{
				region: region,
				date:   s.T[i],
				row:    row,
				y:      target[i],
			})
		}
	}
	return groups, dropped, nil
}

func newSplit(obs []observation, sc *scaler.MinMax) (*Split, error) {
	split := &Split{
		Regions: make([]string, 0, len(obs)),
		Dates:   make([]time.Time, 0, len(obs)),
		Y:       make([]float64, 0, len(obs)),
	}
	if len(obs) == 0 {
		return split, nil
	}

	rows := make([][]float64, 0, len(obs))
	for _, o := range obs {
		split.Regions = append(split.Regions, o.region)
		split.Dates = append(split.Dates, o.date)
		split.Y = append(split.Y, o.y)
		rows = append(rows, o.row)
	}
	x, err := rmat.NewDenseFromArray(rows)
	if err != nil {
		return nil, err
	}
	split.X, err = sc.TransformMatrix(x)
	if err != nil {
		return nil, err
	}
	return split, nil
}
