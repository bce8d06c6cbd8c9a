package feature

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type FourierComp string

const (
	FourierCompSin FourierComp = "sin"
	FourierCompCos FourierComp = "cos"
)

// MonthOfYear is the name of the annual seasonality keyed by calendar month.
const MonthOfYear = "Month"

// Seasonality is one component of the cyclical calendar month encoding with period 12.
type Seasonality struct {
	Name        string      `json:"name"`
	FourierComp FourierComp `json:"fourier_component"`
}

func NewSeasonality(name string, fcomp FourierComp) *Seasonality {
	return &Seasonality{name, fcomp}
}

func (s Seasonality) String() string {
	return fmt.Sprintf("%s_%s", s.Name, s.FourierComp)
}

func (s Seasonality) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return s.Name, true
	case "fourier_component":
		return string(s.FourierComp), true
	}
	return "", false
}

func (s Seasonality) Type() FeatureType {
	return FeatureTypeSeasonality
}

func (s Seasonality) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = s.Name
	res["fourier_component"] = string(s.FourierComp)
	return res
}

// Value evaluates the component at month m in 1..12.
func (s Seasonality) Value(m int) float64 {
	rad := 2.0 * math.Pi * float64(m) / 12.0
	if s.FourierComp == FourierCompCos {
		return math.Cos(rad)
	}
	return math.Sin(rad)
}

// generateMonthly evaluates the component for every time point.
func (s Seasonality) generateMonthly(t []time.Time) []float64 {
	res := make([]float64, len(t))
	for i, tPnt := range t {
		res[i] = s.Value(int(tPnt.Month()))
	}
	return res
}
