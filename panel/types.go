package panel

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout used when writing dates back out.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
}

// Date is a csv cell holding a calendar date.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	if s == "" {
		return ErrEmptyDate
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unable to parse %q, %w", s, ErrUnknownDateFormat)
}

func (d Date) MarshalCSV() (string, error) {
	return d.Time.Format(DateLayout), nil
}

// Float is a csv cell holding a real number where an empty or NA cell is missing (NaN).
type Float float64

func (f *Float) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	switch strings.ToLower(s) {
	case "", "na", "nan", "null", "none":
		*f = Float(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

func (f Float) MarshalCSV() (string, error) {
	if math.IsNaN(float64(f)) {
		return "", nil
	}
	return strconv.FormatFloat(float64(f), 'f', -1, 64), nil
}
