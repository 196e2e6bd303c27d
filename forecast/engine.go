package forecast

import (
	"gonum.org/v1/gonum/mat"

	"demandcast/pkg/errors"
)

// OneStepPredict feeds a single window through the predictor and returns the
// first scalar of the raw output, whatever the declared arity. It is the
// atomic primitive for both iterative forecasting and the walk-forward
// backtest. An empty output is a predictor contract violation.
func OneStepPredict(p Predictor, window []float64) (float64, error) {
	x := mat.NewDense(1, len(window), nil)
	x.SetRow(0, window)

	out, err := p.Predict(x)
	if err != nil {
		return 0, err
	}
	r, c := out.Dims()
	if r == 0 || c == 0 {
		return 0, errors.NewEmptyPredictionError("", "")
	}
	return out.At(0, 0), nil
}

// IterativeForecast builds an H-step forecast by repeated one-step
// prediction: each predicted scalar is appended to the window, which slides
// left by one. Forecast errors compound by construction; that self-feeding
// behavior is the point of the strategy and must not be corrected with true
// values.
func IterativeForecast(p Predictor, window []float64, horizon int) ([]float64, error) {
	w := make([]float64, len(window))
	copy(w, window)

	preds := make([]float64, 0, horizon)
	for step := 0; step < horizon; step++ {
		yhat, err := OneStepPredict(p, w)
		if err != nil {
			return nil, err
		}
		preds = append(preds, yhat)

		copy(w, w[1:])
		w[len(w)-1] = yhat
	}
	return preds, nil
}

// DirectForecast asks a multi-output predictor for the whole horizon in one
// call. A predictor returning fewer values than requested truncates the
// horizon to what it returned rather than erroring.
func DirectForecast(p Predictor, window []float64, horizon int) ([]float64, error) {
	x := mat.NewDense(1, len(window), nil)
	x.SetRow(0, window)

	out, err := p.Predict(x)
	if err != nil {
		return nil, err
	}
	r, c := out.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewEmptyPredictionError("", "")
	}

	if c < horizon {
		horizon = c
	}
	preds := make([]float64, horizon)
	for j := 0; j < horizon; j++ {
		preds[j] = out.At(0, j)
	}
	return preds, nil
}

// Forecast selects the generation strategy from the predictor's declared
// output arity: 1 (or a shape collapsed to a scalar) runs iteratively,
// anything wider runs direct. The choice is made per predictor instance.
func Forecast(p Predictor, window []float64, horizon int) ([]float64, error) {
	if p.OutputDim() <= 1 {
		return IterativeForecast(p, window, horizon)
	}
	return DirectForecast(p, window, horizon)
}
