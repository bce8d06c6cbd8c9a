package ricecast

import (
	"fmt"

	"github.com/aouyang1/go-ricecast/feature"
	"github.com/aouyang1/go-ricecast/models"
	"github.com/aouyang1/go-ricecast/scaler"
)

// Bundle is everything training hands over to inference: the feature schema, the fitted
// scaler and the two regressors.
type Bundle struct {
	Schema *feature.Schema
	Scaler *scaler.MinMax
	ModelA models.Regressor
	ModelB models.Regressor
}

// LoadBundle reads every artifact. Each one is checked against the schema when the
// forecaster is built.
func LoadBundle(paths Artifacts) (*Bundle, error) {
	schema, err := feature.LoadSchema(paths.Schema)
	if err != nil {
		return nil, fmt.Errorf("unable to load feature schema, %w", err)
	}
	sc, err := scaler.Load(paths.Scaler)
	if err != nil {
		return nil, fmt.Errorf("unable to load scaler, %w", err)
	}
	modelA, err := models.Load(paths.ModelA)
	if err != nil {
		return nil, fmt.Errorf("unable to load model a, %w", err)
	}
	modelB, err := models.Load(paths.ModelB)
	if err != nil {
		return nil, fmt.Errorf("unable to load model b, %w", err)
	}
	return &Bundle{
		Schema: schema,
		Scaler: sc,
		ModelA: modelA,
		ModelB: modelB,
	}, nil
}
