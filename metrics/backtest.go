package metrics

import (
	"math"

	"demandcast/forecast"
	"demandcast/pkg/errors"
	"demandcast/preprocessing"
)

// MAPE rating thresholds, in percent. A policy choice, not derived.
const (
	EvalGoodMaxMAPE   = 10.0
	EvalMediumMaxMAPE = 20.0
)

// Report is the validation MetricsRecord attached to every forecast.
type Report struct {
	MAE           float64 `json:"mae"`
	MSE           float64 `json:"mse"`
	RMSE          float64 `json:"rmse"`
	MAPEPct       float64 `json:"mape_pct"`
	SMAPEPct      float64 `json:"smape_pct"`
	Bias          float64 `json:"bias"`
	MAEPctOfMean  float64 `json:"mae_pct_of_mean"`
	Coverage95Pct float64 `json:"coverage_95_pct"`
	Eval          string  `json:"eval"`
	NVal          int     `json:"n_val"`
}

// RateMAPE maps a MAPE percentage to the qualitative accuracy label.
func RateMAPE(mapePct float64) string {
	switch {
	case mapePct <= EvalGoodMaxMAPE:
		return "good"
	case mapePct <= EvalMediumMaxMAPE:
		return "medium"
	default:
		return "poor"
	}
}

// WalkForward backtests a predictor over the trailing valDays of the
// standardized series, one day at a time: predict from the current window,
// record the prediction, then advance the window with the TRUE observed
// value. This simulates repeated one-step redeployment and is deliberately
// a different feedback discipline from the iterative production forecast,
// which feeds its own predictions back; the two must not be unified.
//
// sigma is the residual std from the uncertainty estimator, reused here so
// reported coverage refers to the same band the forecast ships with.
// Metrics are computed in original units after inverse transformation.
func WalkForward(p forecast.Predictor, scaled []float64, scaler *preprocessing.Scaler, lookback, valDays int, sigma float64) (*Report, error) {
	start := len(scaled) - valDays
	if valDays <= 0 || start-lookback < 0 {
		return nil, errors.NewValueError("WalkForward", "series shorter than lookback plus validation span")
	}

	window := make([]float64, lookback)
	copy(window, scaled[start-lookback:start])

	trueZ := make([]float64, 0, valDays)
	predZ := make([]float64, 0, valDays)
	for t := start; t < len(scaled); t++ {
		yhat, err := forecast.OneStepPredict(p, window)
		if err != nil {
			return nil, err
		}
		predZ = append(predZ, yhat)
		trueZ = append(trueZ, scaled[t])

		copy(window, window[1:])
		window[lookback-1] = scaled[t]
	}

	yTrue, err := scaler.InverseTransform(trueZ)
	if err != nil {
		return nil, err
	}
	yPred, err := scaler.InverseTransform(predZ)
	if err != nil {
		return nil, err
	}

	lowerZ := make([]float64, len(predZ))
	upperZ := make([]float64, len(predZ))
	for i, z := range predZ {
		lowerZ[i] = z - 1.96*sigma
		upperZ[i] = z + 1.96*sigma
	}
	lower, err := scaler.InverseTransform(lowerZ)
	if err != nil {
		return nil, err
	}
	upper, err := scaler.InverseTransform(upperZ)
	if err != nil {
		return nil, err
	}

	return buildReport(yTrue, yPred, lower, upper)
}

func buildReport(yTrue, yPred, lower, upper []float64) (*Report, error) {
	mae, err := MAE(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	mape, err := SafeMAPE(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	smape, err := SMAPE(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	bias, err := Bias(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	coverage, err := Coverage(yTrue, lower, upper)
	if err != nil {
		return nil, err
	}

	var meanAbsTrue float64
	for _, v := range yTrue {
		meanAbsTrue += math.Abs(v)
	}
	meanAbsTrue /= float64(len(yTrue))

	return &Report{
		MAE:           mae,
		MSE:           mse,
		RMSE:          math.Sqrt(mse),
		MAPEPct:       mape,
		SMAPEPct:      smape,
		Bias:          bias,
		MAEPctOfMean:  mae / (meanAbsTrue + eps) * 100.0,
		Coverage95Pct: coverage,
		Eval:          RateMAPE(mape),
		NVal:          len(yTrue),
	}, nil
}
