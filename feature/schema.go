package feature

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/aouyang1/go-ricecast/panel"
	"github.com/goccy/go-json"
)

var (
	ErrSchemaMismatch   = errors.New("feature schema mismatch")
	ErrLagDepthMismatch = errors.New("lag depth does not match feature schema")
	ErrInvalidLagDepth  = errors.New("lag depth must be at least 1")
	ErrUnknownFeature   = errors.New("unknown feature")
	ErrDuplicateFeature = errors.New("duplicate feature")
	ErrTargetLeak       = errors.New("target of the predicted month cannot be a feature")
	ErrEmptySchema      = errors.New("empty feature schema")
	ErrMissingValue     = errors.New("missing feature value")
)

// ParseFeature turns a stored feature name back into its typed label. Recognized forms
// are <column>_lag_<k>, Month_sin, Month_cos and the raw climate covariates.
func ParseFeature(name string) (Feature, error) {
	if idx := strings.LastIndex(name, lagSep); idx > 0 {
		col := name[:idx]
		offset, err := strconv.Atoi(name[idx+len(lagSep):])
		if err != nil || offset < 1 {
			return nil, fmt.Errorf("%q has an invalid lag offset, %w", name, ErrUnknownFeature)
		}
		if col != panel.ColTarget && !slices.Contains(panel.Covariates, col) {
			return nil, fmt.Errorf("%q lags an unknown column, %w", name, ErrUnknownFeature)
		}
		return NewLag(col, offset), nil
	}

	for _, fcomp := range []FourierComp{FourierCompSin, FourierCompCos} {
		seas := NewSeasonality(MonthOfYear, fcomp)
		if name == seas.String() {
			return seas, nil
		}
	}

	if name == panel.ColTarget {
		return nil, fmt.Errorf("%q, %w", name, ErrTargetLeak)
	}
	if slices.Contains(panel.Covariates, name) {
		return NewRaw(name), nil
	}
	return nil, fmt.Errorf("%q, %w", name, ErrUnknownFeature)
}

// Schema is the ordered list of features fixed at training time. Inference replays it
// verbatim; any other order or count is a mismatch.
type Schema struct {
	labels *Labels
}

// NewSchema parses and validates an ordered list of feature names.
func NewSchema(names []string) (*Schema, error) {
	if len(names) == 0 {
		return nil, ErrEmptySchema
	}
	labels := make([]Feature, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, exists := seen[name]; exists {
			return nil, fmt.Errorf("%q, %w", name, ErrDuplicateFeature)
		}
		seen[name] = struct{}{}

		f, err := ParseFeature(name)
		if err != nil {
			return nil, err
		}
		labels = append(labels, f)
	}
	return &Schema{labels: NewLabels(labels)}, nil
}

// DefaultSchema is the feature layout of the training pipeline: raw covariates, target
// lags 1..lagDepth, each covariate's lags 1..lagDepth, then the month seasonality pair.
func DefaultSchema(lagDepth int) (*Schema, error) {
	if lagDepth < 1 {
		return nil, ErrInvalidLagDepth
	}
	var names []string
	names = append(names, panel.Covariates...)
	for _, col := range append([]string{panel.ColTarget}, panel.Covariates...) {
		for i := 1; i <= lagDepth; i++ {
			names = append(names, NewLag(col, i).String())
		}
	}
	names = append(names,
		NewSeasonality(MonthOfYear, FourierCompSin).String(),
		NewSeasonality(MonthOfYear, FourierCompCos).String(),
	)
	return NewSchema(names)
}

// LoadSchema reads a schema stored as a json array of feature names.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("unable to decode feature schema %s, %w", path, err)
	}
	return NewSchema(names)
}

// Save writes the schema as a json array of feature names.
func (s *Schema) Save(path string) error {
	data, err := json.MarshalIndent(s.Names(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := NewSchema(names)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

// Len returns the number of features.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return s.labels.Len()
}

// Features returns the typed features in order.
func (s *Schema) Features() []Feature {
	if s == nil {
		return nil
	}
	return s.labels.Labels()
}

// Names returns the feature names in order.
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	return s.labels.Names()
}

// Index returns the column of a feature.
func (s *Schema) Index(f Feature) (int, bool) {
	if s == nil {
		return -1, false
	}
	return s.labels.Index(f)
}

// LagDepth returns the deepest lag offset referenced by the schema or 0 if it has none.
func (s *Schema) LagDepth() int {
	var depth int
	for _, f := range s.Features() {
		if lag, ok := f.(*Lag); ok && lag.Offset > depth {
			depth = lag.Offset
		}
	}
	return depth
}

// CheckLagDepth verifies that a configured lag depth is the one the schema was built with.
func (s *Schema) CheckLagDepth(lagDepth int) error {
	if lagDepth < 1 {
		return ErrInvalidLagDepth
	}
	if depth := s.LagDepth(); depth != lagDepth {
		return fmt.Errorf(
			"configured lag depth %d, schema lag depth %d, %w",
			lagDepth, depth, ErrLagDepthMismatch,
		)
	}
	return nil
}

// Equal checks that names lists exactly the schema features in the same order.
func (s *Schema) Equal(names []string) error {
	expected := s.Names()
	if len(names) != len(expected) {
		return fmt.Errorf(
			"expected %d features, but got %d, %w",
			len(expected), len(names), ErrSchemaMismatch,
		)
	}
	for i, name := range names {
		if name != expected[i] {
			return fmt.Errorf(
				"feature %d is %q, expected %q, %w",
				i, name, expected[i], ErrSchemaMismatch,
			)
		}
	}
	return nil
}
