package feature

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const lagSep = "_lag_"

// Lag is the value of a column Offset months earlier within the same region.
type Lag struct {
	Column string `json:"column"`
	Offset int    `json:"offset"`
}

func NewLag(column string, offset int) *Lag {
	return &Lag{column, offset}
}

func (l Lag) String() string {
	return fmt.Sprintf("%s%s%d", l.Column, lagSep, l.Offset)
}

func (l Lag) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "column":
		return l.Column, true
	case "offset":
		return strconv.Itoa(l.Offset), true
	}
	return "", false
}

func (l Lag) Type() FeatureType {
	return FeatureTypeLag
}

func (l Lag) Decode() map[string]string {
	res := make(map[string]string)
	res["column"] = l.Column
	res["offset"] = strconv.Itoa(l.Offset)
	return res
}

// shift returns data delayed by offset rows with the first offset rows missing.
func shift(data []float64, offset int) []float64 {
	res := make([]float64, len(data))
	for i := range res {
		if i < offset {
			res[i] = math.NaN()
			continue
		}
		res[i] = data[i-offset]
	}
	return res
}
