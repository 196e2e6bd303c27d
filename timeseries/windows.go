package timeseries

import (
	"gonum.org/v1/gonum/mat"

	"demandcast/pkg/errors"
)

// MakeWindows slices a standardized series into contiguous (input, target)
// samples: row i of X is series[i : i+lookback] and row i of Y is
// series[i+lookback : i+lookback+horizon]. It produces exactly
// len(series)-lookback-horizon+1 samples and never reads past the series
// end. A series shorter than lookback+horizon is a fatal configuration
// error for the product, not a skippable condition.
func MakeWindows(series []float64, lookback, horizon int) (X, Y *mat.Dense, err error) {
	if lookback <= 0 || horizon <= 0 {
		return nil, nil, errors.NewValueError("MakeWindows", "lookback and horizon must be positive")
	}

	n := len(series) - lookback - horizon + 1
	if n <= 0 {
		return nil, nil, errors.NewShortSeriesError("MakeWindows", len(series), lookback+horizon)
	}

	X = mat.NewDense(n, lookback, nil)
	Y = mat.NewDense(n, horizon, nil)
	for i := 0; i < n; i++ {
		X.SetRow(i, series[i:i+lookback])
		Y.SetRow(i, series[i+lookback:i+lookback+horizon])
	}
	return X, Y, nil
}

// TimeSplit reserves the last valLen samples for validation and everything
// earlier for training. Samples are in generation order, which tracks time,
// so this is a count-based temporal split. valLen must be strictly between
// 0 and the sample count.
func TimeSplit(X, Y *mat.Dense, valLen int) (XTr, XVa, YTr, YVa *mat.Dense, err error) {
	n, _ := X.Dims()
	yn, _ := Y.Dims()
	if yn != n {
		return nil, nil, nil, nil, errors.NewDimensionError("TimeSplit", n, yn)
	}
	if valLen <= 0 || valLen >= n {
		return nil, nil, nil, nil, errors.NewValueError("TimeSplit", "val length must be strictly between 0 and the sample count")
	}

	split := n - valLen
	_, xc := X.Dims()
	_, yc := Y.Dims()
	XTr = X.Slice(0, split, 0, xc).(*mat.Dense)
	XVa = X.Slice(split, n, 0, xc).(*mat.Dense)
	YTr = Y.Slice(0, split, 0, yc).(*mat.Dense)
	YVa = Y.Slice(split, n, 0, yc).(*mat.Dense)
	return XTr, XVa, YTr, YVa, nil
}
