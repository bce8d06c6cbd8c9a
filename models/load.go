package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// Load reads a model artifact. A .txt file is a native LightGBM model; a .json file is a
// tree ensemble or a linear model depending on its kind.
func Load(path string) (Regressor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return LoadLightGBM(path)
	case ".json":
	default:
		return nil, fmt.Errorf("unsupported model file %s, %w", path, ErrUnknownKind)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses a json model artifact.
func Decode(data []byte) (Regressor, error) {
	var header struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("unable to decode model header, %w", err)
	}

	switch header.Kind {
	case KindRandomForest, KindGradientBoosting:
		var e TreeEnsemble
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("unable to decode %s model, %w", header.Kind, err)
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		return &e, nil
	case KindLinear:
		var l Linear
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("unable to decode linear model, %w", err)
		}
		if l.Names != nil && len(l.Names) != len(l.Coef) {
			return nil, fmt.Errorf(
				"%d feature names for %d coefficients, %w",
				len(l.Names), len(l.Coef), ErrFeatureLenMismatch,
			)
		}
		return &l, nil
	}
	return nil, fmt.Errorf("%q, %w", header.Kind, ErrUnknownKind)
}
