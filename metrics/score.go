// Package metrics scores model predictions against held out actuals.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoObservations = errors.New("no observations to score")
)

// Scores tracks the fit scores
type Scores struct {
	RMSE  float64 `json:"root_mean_squared_error"`
	MAE   float64 `json:"mean_absolute_error"`
	SMAPE float64 `json:"symmetric_mean_absolute_percent_error"`
	R2    float64 `json:"r_squared"`
}

// NewScores calculates the fit scores given the predicted and actual input slice values
func NewScores(predicted, actual []float64) (*Scores, error) {
	rmse, err := RMSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute root mean squared error, %w", err)
	}
	mae, err := MAE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute error, %w", err)
	}
	smape, err := SMAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute symmetric mean absolute percent error, %w", err)
	}
	rs, err := RSquared(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r-squared, %w", err)
	}

	return &Scores{
		RMSE:  rmse,
		MAE:   mae,
		SMAPE: smape,
		R2:    rs,
	}, nil
}

// pairs drops every position where either side is missing.
func pairs(predicted, actual []float64) ([]float64, []float64, error) {
	if len(predicted) != len(actual) {
		return nil, nil, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	p := make([]float64, 0, len(predicted))
	a := make([]float64, 0, len(actual))
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		p = append(p, predicted[i])
		a = append(a, actual[i])
	}
	if len(a) == 0 {
		return nil, nil, ErrNoObservations
	}
	return p, a, nil
}

// RMSE computes the root mean squared error, sqrt(mean((y-yhat)^2)).
// A score of 0 means a perfect match with no errors.
func RMSE(predicted, actual []float64) (float64, error) {
	p, a, err := pairs(predicted, actual)
	if err != nil {
		return 0, err
	}
	mse := 0.0
	for i := range a {
		mse += math.Pow(a[i]-p[i], 2.0)
	}
	mse /= float64(len(a))
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error, mean(abs(y-yhat)).
func MAE(predicted, actual []float64) (float64, error) {
	p, a, err := pairs(predicted, actual)
	if err != nil {
		return 0, err
	}
	mae := 0.0
	for i := range a {
		mae += math.Abs(a[i] - p[i])
	}
	return mae / float64(len(a)), nil
}

// SMAPE computes the symmetric mean absolute percent error in percent,
// 100 * mean(abs(yhat-y) / ((abs(y)+abs(yhat))/2)). A pair where both values are zero
// has a zero denominator and counts as no error.
func SMAPE(predicted, actual []float64) (float64, error) {
	p, a, err := pairs(predicted, actual)
	if err != nil {
		return 0, err
	}
	smape := 0.0
	for i := range a {
		num := math.Abs(p[i] - a[i])
		denom := (math.Abs(a[i]) + math.Abs(p[i])) / 2
		if denom == 0 {
			denom = 1
		}
		smape += num / denom
	}
	return smape / float64(len(a)) * 100, nil
}

// RSquared computes the r squared value between the predicted and actual where 1.0 means perfect
// fit and 0 represents no relationship
func RSquared(predicted, actual []float64) (float64, error) {
	p, a, err := pairs(predicted, actual)
	if err != nil {
		return 0, err
	}
	r2 := stat.RSquaredFrom(p, a, nil)
	if math.IsNaN(r2) {
		return 1.0, nil
	}
	return r2, nil
}
