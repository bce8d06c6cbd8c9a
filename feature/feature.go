package feature

type FeatureType int

const (
	FeatureTypeRaw FeatureType = iota
	FeatureTypeLag
	FeatureTypeSeasonality
)

// Feature is a named model input derived from a region series.
type Feature interface {
	String() string
	Get(string) (string, bool)
	Type() FeatureType
}
