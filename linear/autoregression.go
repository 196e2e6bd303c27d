// Package linear provides a closed-form autoregressive baseline. It fits a
// one-step linear model over the lookback window by ridge-regularized normal
// equations, giving the neural architectures a fast reference point that
// needs no iterative training.
package linear

import (
	"gonum.org/v1/gonum/mat"

	"demandcast/core/model"
	"demandcast/forecast"
	"demandcast/pkg/errors"
)

// ridge is the regularization added to the normal equations. It keeps the
// system solvable when window columns are collinear, which flat demand
// series produce routinely.
const ridge = 1e-6

// Autoregression predicts the next value as an affine function of the
// lookback window: y = w·x + b, solved in closed form.
type Autoregression struct {
	model.BaseEstimator

	lookback  int
	weights   *mat.VecDense
	intercept float64
}

// NewAutoregression creates an unfitted baseline for the given window
// length.
func NewAutoregression(lookback int) *Autoregression {
	return &Autoregression{lookback: lookback}
}

func init() {
	forecast.Register("ols_baseline", func(lookback, horizon int, cfg forecast.TrainConfig) forecast.Predictor {
		return NewAutoregression(lookback)
	})
}

// Fit solves w = (XᵀX + λI)⁻¹ Xᵀy against the first target column. The
// validation set only contributes a loss entry to the history; a closed-form
// solve has nothing to early-stop.
func (a *Autoregression) Fit(xTr, yTr, xVa, yVa *mat.Dense) (*forecast.TrainingHistory, error) {
	rows, cols := xTr.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.NewValueError("Autoregression.Fit", "empty training data")
	}
	if cols != a.lookback {
		return nil, errors.NewDimensionError("Autoregression.Fit", a.lookback, cols)
	}
	yRows, yCols := yTr.Dims()
	if yRows != rows || yCols < 1 {
		return nil, errors.NewDimensionError("Autoregression.Fit", rows, yRows)
	}

	// Design matrix with a leading intercept column.
	design := mat.NewDense(rows, cols+1, nil)
	y := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		design.Set(i, 0, 1.0)
		for j := 0; j < cols; j++ {
			design.Set(i, j+1, xTr.At(i, j))
		}
		y.SetVec(i, yTr.At(i, 0))
	}

	var gram mat.Dense
	gram.Mul(design.T(), design)
	for i := 0; i <= cols; i++ {
		gram.Set(i, i, gram.At(i, i)+ridge)
	}

	var rhs mat.VecDense
	rhs.MulVec(design.T(), y)

	solved := mat.NewVecDense(cols+1, nil)
	if err := solved.SolveVec(&gram, &rhs); err != nil {
		return nil, errors.NewValueError("Autoregression.Fit", "normal equations are singular")
	}

	a.intercept = solved.AtVec(0)
	a.weights = mat.NewVecDense(cols, nil)
	for j := 0; j < cols; j++ {
		a.weights.SetVec(j, solved.AtVec(j + 1))
	}
	a.SetFitted()

	hist := &forecast.TrainingHistory{Loss: []float64{a.mse(xTr, yTr)}}
	if xVa != nil && yVa != nil {
		if vr, _ := xVa.Dims(); vr > 0 {
			hist.ValLoss = []float64{a.mse(xVa, yVa)}
		}
	}
	return hist, nil
}

// Predict maps each input window to its one-step prediction.
func (a *Autoregression) Predict(x *mat.Dense) (*mat.Dense, error) {
	if !a.IsFitted() {
		return nil, errors.NewNotFittedError("Autoregression", "Predict")
	}
	rows, cols := x.Dims()
	if cols != a.lookback {
		return nil, errors.NewDimensionError("Autoregression.Predict", a.lookback, cols)
	}
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		v := a.intercept
		for j := 0; j < cols; j++ {
			v += a.weights.AtVec(j) * x.At(i, j)
		}
		out.Set(i, 0, v)
	}
	return out, nil
}

// OutputDim is 1: the baseline forecasts iteratively.
func (a *Autoregression) OutputDim() int { return 1 }

func (a *Autoregression) mse(x, y *mat.Dense) float64 {
	pred, err := a.Predict(x)
	if err != nil {
		return 0
	}
	rows, _ := x.Dims()
	var sum float64
	for i := 0; i < rows; i++ {
		d := y.At(i, 0) - pred.At(i, 0)
		sum += d * d
	}
	return sum / float64(rows)
}

type arState struct {
	Lookback  int
	Weights   []float64
	Intercept float64
}

// MarshalBinary serializes the fitted coefficients.
func (a *Autoregression) MarshalBinary() ([]byte, error) {
	if !a.IsFitted() {
		return nil, errors.NewNotFittedError("Autoregression", "MarshalBinary")
	}
	w := make([]float64, a.lookback)
	for j := range w {
		w[j] = a.weights.AtVec(j)
	}
	return model.EncodeArtifact(arState{Lookback: a.lookback, Weights: w, Intercept: a.intercept})
}

// UnmarshalBinary restores coefficients, rejecting artifacts trained with a
// different window length.
func (a *Autoregression) UnmarshalBinary(data []byte) error {
	var st arState
	if err := model.DecodeArtifact(data, &st); err != nil {
		return err
	}
	if st.Lookback != a.lookback {
		return errors.NewDimensionError("Autoregression.UnmarshalBinary", a.lookback, st.Lookback)
	}
	a.weights = mat.NewVecDense(st.Lookback, st.Weights)
	a.intercept = st.Intercept
	a.SetFitted()
	return nil
}
