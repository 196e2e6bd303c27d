package forecast

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"demandcast/pkg/errors"
	"demandcast/timeseries"
)

// ResidualStd estimates the standard deviation of validation residuals in
// standardized space, with sample (n-1) correction. The 95% interval
// half-width is 1.96 times this value, applied symmetrically in z-space
// before the bounds are inverse-transformed with the point forecast.
//
// Residuals are (true - predicted) over the held-out windows, compared
// column-wise up to the predictor's output arity, so a single-output model
// is judged on its one-step-ahead target only. Fewer than two residuals
// yield 0: a zero-width band instead of NaN. When the sample count is too
// small for the configured validation span, the split falls back to the
// trailing 20% of samples.
//
// The estimate assumes homoscedastic, zero-mean, approximately normal
// residuals. That is a deliberate simplification, not an oversight.
func ResidualStd(p Predictor, scaled []float64, lookback, horizon, valLen int) (float64, error) {
	X, Y, err := timeseries.MakeWindows(scaled, lookback, horizon)
	if err != nil {
		return 0, err
	}

	n, _ := X.Dims()
	var XVa, YVa *mat.Dense
	if n < valLen+10 {
		split := int(float64(n) * 0.8)
		if split <= 0 || split >= n {
			return 0, nil
		}
		_, xc := X.Dims()
		_, yc := Y.Dims()
		XVa = X.Slice(split, n, 0, xc).(*mat.Dense)
		YVa = Y.Slice(split, n, 0, yc).(*mat.Dense)
	} else {
		_, XVa, _, YVa, err = timeseries.TimeSplit(X, Y, valLen)
		if err != nil {
			return 0, err
		}
	}

	out, err := p.Predict(XVa)
	if err != nil {
		return 0, err
	}
	outR, outC := out.Dims()
	vaR, vaC := YVa.Dims()
	if outR != vaR {
		return 0, errors.NewDimensionError("ResidualStd", vaR, outR)
	}

	cols := outC
	if vaC < cols {
		cols = vaC
	}

	residuals := make([]float64, 0, vaR*cols)
	for i := 0; i < vaR; i++ {
		for j := 0; j < cols; j++ {
			residuals = append(residuals, YVa.At(i, j)-out.At(i, j))
		}
	}
	return sampleStd(residuals), nil
}

// sampleStd computes the (n-1)-corrected standard deviation, returning 0 for
// fewer than two observations.
func sampleStd(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}

	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(n)

	var sumSq float64
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}
