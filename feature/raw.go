package feature

import "strings"

// Raw is a covariate column used as is at the row being predicted.
type Raw struct {
	Column string `json:"column"`
}

func NewRaw(column string) *Raw {
	return &Raw{column}
}

func (r Raw) String() string {
	return r.Column
}

func (r Raw) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "column":
		return r.Column, true
	}
	return "", false
}

func (r Raw) Type() FeatureType {
	return FeatureTypeRaw
}

func (r Raw) Decode() map[string]string {
	res := make(map[string]string)
	res["column"] = r.Column
	return res
}
