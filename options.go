package ricecast

import (
	"errors"
	"fmt"
	"os"

	"github.com/aouyang1/go-ricecast/rollout"
	"github.com/goccy/go-json"
)

var ErrInvalidYearRange = errors.New("year range start is after its end")

// YearRange is an inclusive range of calendar years.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether year falls in the range.
func (y YearRange) Contains(year int) bool {
	return year >= y.From && year <= y.To
}

func (y YearRange) Validate() error {
	if y.From > y.To {
		return fmt.Errorf("%d-%d, %w", y.From, y.To, ErrInvalidYearRange)
	}
	return nil
}

// Artifacts are the paths of the files produced by training and replayed at inference.
type Artifacts struct {
	Schema string `json:"schema"`
	Scaler string `json:"scaler"`
	ModelA string `json:"model_a"`
	ModelB string `json:"model_b"`
}

// Options configures training set preparation and the forecast rollout.
type Options struct {
	Rollout    *rollout.Options `json:"rollout"`
	TrainYears YearRange        `json:"train_years"`
	TestYears  YearRange        `json:"test_years"`
	Artifacts  Artifacts        `json:"artifacts"`
}

// NewDefaultOptions trains on 2018-2022, tests on 2023-2024 and forecasts 12 months with
// 12 lags.
func NewDefaultOptions() *Options {
	return &Options{
		Rollout:    rollout.NewDefaultOptions(),
		TrainYears: YearRange{From: 2018, To: 2022},
		TestYears:  YearRange{From: 2023, To: 2024},
		Artifacts: Artifacts{
			Schema: "features.json",
			Scaler: "scaler.json",
			ModelA: "model_a.json",
			ModelB: "model_b.txt",
		},
	}
}

// Validate fills in missing rollout options and checks every field.
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if o.Rollout == nil {
		o.Rollout = rollout.NewDefaultOptions()
	}
	ro, err := o.Rollout.Validate()
	if err != nil {
		return nil, err
	}
	o.Rollout = ro
	if err := o.TrainYears.Validate(); err != nil {
		return nil, fmt.Errorf("train years, %w", err)
	}
	if err := o.TestYears.Validate(); err != nil {
		return nil, fmt.Errorf("test years, %w", err)
	}
	return o, nil
}

// LoadOptions reads options from a json file, starting from the defaults.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opt := NewDefaultOptions()
	if err := json.Unmarshal(data, opt); err != nil {
		return nil, fmt.Errorf("unable to decode options %s, %w", path, err)
	}
	return opt.Validate()
}

// Save writes the options as json.
func (o *Options) Save(path string) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
