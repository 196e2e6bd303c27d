// Package metrics computes backtest accuracy for a fitted predictor: the
// point metrics over (true, predicted) pairs in original units plus the
// walk-forward evaluation that produces them.
package metrics

import (
	"math"

	"demandcast/pkg/errors"
)

// eps floors denominators so MAPE and SMAPE are defined for zero demand
// days instead of raising or returning Inf.
const eps = 1e-8

// MAE is the mean absolute error.
func MAE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MAE", yTrue, yPred); err != nil {
		return 0, err
	}
	var sum float64
	for i := range yTrue {
		sum += math.Abs(yPred[i] - yTrue[i])
	}
	return sum / float64(len(yTrue)), nil
}

// MSE is the mean squared error.
func MSE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MSE", yTrue, yPred); err != nil {
		return 0, err
	}
	var sum float64
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		sum += d * d
	}
	return sum / float64(len(yTrue)), nil
}

// RMSE is the root mean squared error.
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// SafeMAPE is the mean absolute percentage error with the denominator
// floored at eps, so an all-zero true series degrades to a huge-but-finite
// percentage instead of NaN or Inf.
func SafeMAPE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("SafeMAPE", yTrue, yPred); err != nil {
		return 0, err
	}
	var sum float64
	for i := range yTrue {
		denom := math.Max(math.Abs(yTrue[i]), eps)
		sum += math.Abs(yTrue[i]-yPred[i]) / denom
	}
	return sum / float64(len(yTrue)) * 100.0, nil
}

// SMAPE is the symmetric mean absolute percentage error, bounded by 200,
// with the same eps floor on the denominator.
func SMAPE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("SMAPE", yTrue, yPred); err != nil {
		return 0, err
	}
	var sum float64
	for i := range yTrue {
		denom := math.Max((math.Abs(yTrue[i])+math.Abs(yPred[i]))/2.0, eps)
		sum += math.Abs(yTrue[i]-yPred[i]) / denom
	}
	return sum / float64(len(yTrue)) * 100.0, nil
}

// Bias is the mean signed error: positive means over-forecast, negative
// means under-forecast.
func Bias(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("Bias", yTrue, yPred); err != nil {
		return 0, err
	}
	var sum float64
	for i := range yTrue {
		sum += yPred[i] - yTrue[i]
	}
	return sum / float64(len(yTrue)), nil
}

// Coverage is the percentage of true values falling inside the
// [lower[i], upper[i]] interval, in [0, 100].
func Coverage(yTrue, lower, upper []float64) (float64, error) {
	if err := checkPair("Coverage", yTrue, lower); err != nil {
		return 0, err
	}
	if err := checkPair("Coverage", yTrue, upper); err != nil {
		return 0, err
	}
	covered := 0
	for i := range yTrue {
		if yTrue[i] >= lower[i] && yTrue[i] <= upper[i] {
			covered++
		}
	}
	return float64(covered) / float64(len(yTrue)) * 100.0, nil
}

func checkPair(op string, yTrue, yPred []float64) error {
	if len(yTrue) == 0 {
		return errors.NewValueError(op, "empty input")
	}
	if len(yPred) != len(yTrue) {
		return errors.NewDimensionError(op, len(yTrue), len(yPred))
	}
	return nil
}
