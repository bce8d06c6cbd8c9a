package models

import (
	"errors"
)

var (
	ErrNoDesignMatrix     = errors.New("no design matrix for inference")
	ErrFeatureLenMismatch = errors.New("number of features does not match the model")
	ErrFeatureNames       = errors.New("model feature names do not match the feature schema")
	ErrMissingValue       = errors.New("feature row contains a missing value")
	ErrNoRegressor        = errors.New("no regressor")
	ErrUnknownKind        = errors.New("unknown model kind")
	ErrEmptyEnsemble      = errors.New("ensemble has no trees")
	ErrMalformedTree      = errors.New("malformed tree")
	ErrEmptyPrediction    = errors.New("model returned no prediction")
)
