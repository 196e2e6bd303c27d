// Package neural implements the built-in predictor architectures: small
// feedforward networks trained by mini-batch Adam on mean squared error,
// with early stopping on validation loss and best-weight restoration. They
// satisfy the forecast.Predictor capability and register themselves under
// architecture tags at init time.
package neural

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"demandcast/core/model"
	"demandcast/forecast"
	"demandcast/pkg/errors"
)

// Network is a fully connected feedforward net with ReLU hidden activations
// and a linear output layer. sizes holds the layer widths from input to
// output, so a net with no hidden layers degenerates to a linear model.
type Network struct {
	model.BaseEstimator

	sizes   []int
	weights []*mat.Dense // weights[l] is (sizes[l+1] x sizes[l])
	biases  [][]float64
	cfg     forecast.TrainConfig
}

// NewNetwork builds an untrained network. hidden may be empty.
func NewNetwork(inputDim int, hidden []int, outputDim int, cfg forecast.TrainConfig) *Network {
	sizes := make([]int, 0, len(hidden)+2)
	sizes = append(sizes, inputDim)
	sizes = append(sizes, hidden...)
	sizes = append(sizes, outputDim)

	n := &Network{sizes: sizes, cfg: cfg}
	n.initParams(rand.New(rand.NewSource(cfg.Seed)))
	return n
}

// OutputDim declares the output arity used for forecast strategy selection.
func (n *Network) OutputDim() int {
	return n.sizes[len(n.sizes)-1]
}

// initParams applies He initialization to the weights, which suits the ReLU
// hidden layers; biases start at zero.
func (n *Network) initParams(rng *rand.Rand) {
	layers := len(n.sizes) - 1
	n.weights = make([]*mat.Dense, layers)
	n.biases = make([][]float64, layers)
	for l := 0; l < layers; l++ {
		in, out := n.sizes[l], n.sizes[l+1]
		scale := math.Sqrt(2.0 / float64(in))
		data := make([]float64, out*in)
		for i := range data {
			data[i] = rng.NormFloat64() * scale
		}
		n.weights[l] = mat.NewDense(out, in, data)
		n.biases[l] = make([]float64, out)
	}
}

// forward runs a batch through the network, returning the pre-activations
// and activations of every layer. activations[0] is the input batch.
func (n *Network) forward(X *mat.Dense) (pre, act []*mat.Dense) {
	layers := len(n.weights)
	pre = make([]*mat.Dense, layers)
	act = make([]*mat.Dense, layers+1)
	act[0] = X

	for l := 0; l < layers; l++ {
		var z mat.Dense
		z.Mul(act[l], n.weights[l].T())
		r, c := z.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				z.Set(i, j, z.At(i, j)+n.biases[l][j])
			}
		}
		pre[l] = &z

		if l == layers-1 {
			act[l+1] = &z // linear output
			continue
		}
		a := mat.NewDense(r, c, nil)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if v := z.At(i, j); v > 0 {
					a.Set(i, j, v)
				}
			}
		}
		act[l+1] = a
	}
	return pre, act
}

// Predict maps a batch of windows to a batch of outputs.
func (n *Network) Predict(X *mat.Dense) (*mat.Dense, error) {
	if !n.IsFitted() {
		return nil, errors.NewNotFittedError("Network", "Predict")
	}
	_, c := X.Dims()
	if c != n.sizes[0] {
		return nil, errors.NewDimensionError("Network.Predict", n.sizes[0], c)
	}
	_, act := n.forward(X)
	return act[len(act)-1], nil
}

// Fit trains with mini-batch Adam on MSE, monitoring validation loss each
// epoch. Training stops early when the validation loss has not improved for
// the patience window and the best-seen weights are restored afterwards.
// When the targets carry more columns than the output arity (the window
// generator always emits horizon-wide targets), only the leading columns up
// to the arity are trained against.
func (n *Network) Fit(XTr, YTr, XVa, YVa *mat.Dense) (*forecast.TrainingHistory, error) {
	rows, inDim := XTr.Dims()
	if inDim != n.sizes[0] {
		return nil, errors.NewDimensionError("Network.Fit", n.sizes[0], inDim)
	}
	if rows == 0 {
		return nil, errors.NewValueError("Network.Fit", "empty training batch")
	}

	outDim := n.OutputDim()
	yTr, err := clipTargets(YTr, outDim)
	if err != nil {
		return nil, err
	}
	yVa, err := clipTargets(YVa, outDim)
	if err != nil {
		return nil, err
	}

	epochs := n.cfg.Epochs
	if epochs <= 0 {
		epochs = 25
	}
	batchSize := n.cfg.BatchSize
	if batchSize <= 0 || batchSize > rows {
		batchSize = rows
	}
	lr := n.cfg.LearningRate
	if lr <= 0 {
		lr = 1e-3
	}
	patience := n.cfg.Patience
	if patience <= 0 {
		patience = 5
	}

	rng := rand.New(rand.NewSource(n.cfg.Seed))
	opt := newAdam(n.sizes, lr)
	stopper := newEarlyStopping(patience)
	history := &forecast.TrainingHistory{}
	var best *netState

	perm := make([]int, rows)
	for i := range perm {
		perm[i] = i
	}

	for epoch := 0; epoch < epochs; epoch++ {
		rng.Shuffle(rows, func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

		for start := 0; start < rows; start += batchSize {
			end := start + batchSize
			if end > rows {
				end = rows
			}
			xb, yb := gatherRows(XTr, yTr, perm[start:end])
			n.trainBatch(xb, yb, opt)
		}

		n.SetFitted()
		trainLoss := n.mse(XTr, yTr)
		valLoss := n.mse(XVa, yVa)
		history.Loss = append(history.Loss, trainLoss)
		history.ValLoss = append(history.ValLoss, valLoss)

		improved, stop := stopper.update(epoch, valLoss)
		if improved {
			best = n.snapshot()
		}
		if stop {
			break
		}
	}

	if best != nil {
		n.restore(best)
	}
	n.SetFitted()
	return history, nil
}

// trainBatch runs one forward/backward pass and applies an Adam update.
// The MSE gradient is averaged over every output element of the batch.
func (n *Network) trainBatch(X, Y *mat.Dense, opt *adam) {
	pre, act := n.forward(X)
	layers := len(n.weights)
	rows, outDim := Y.Dims()

	// delta at the output layer: 2 * (yhat - y) / (rows * outDim)
	delta := mat.NewDense(rows, outDim, nil)
	out := act[layers]
	norm := 2.0 / float64(rows*outDim)
	for i := 0; i < rows; i++ {
		for j := 0; j < outDim; j++ {
			delta.Set(i, j, (out.At(i, j)-Y.At(i, j))*norm)
		}
	}

	for l := layers - 1; l >= 0; l-- {
		var gradW mat.Dense
		gradW.Mul(delta.T(), act[l])

		_, width := delta.Dims()
		gradB := make([]float64, width)
		dr, _ := delta.Dims()
		for i := 0; i < dr; i++ {
			for j := 0; j < width; j++ {
				gradB[j] += delta.At(i, j)
			}
		}

		if l > 0 {
			var back mat.Dense
			back.Mul(delta, n.weights[l])
			br, bc := back.Dims()
			for i := 0; i < br; i++ {
				for j := 0; j < bc; j++ {
					if pre[l-1].At(i, j) <= 0 {
						back.Set(i, j, 0)
					}
				}
			}
			delta = &back
		}

		opt.step(l, n.weights[l], n.biases[l], &gradW, gradB)
	}
}

// mse computes the mean squared error over all output elements.
func (n *Network) mse(X, Y *mat.Dense) float64 {
	_, act := n.forward(X)
	out := act[len(act)-1]
	rows, cols := Y.Dims()
	if rows == 0 || cols == 0 {
		return math.NaN()
	}
	var sum float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d := out.At(i, j) - Y.At(i, j)
			sum += d * d
		}
	}
	return sum / float64(rows*cols)
}

// clipTargets narrows a target matrix to the leading outDim columns.
func clipTargets(Y *mat.Dense, outDim int) (*mat.Dense, error) {
	r, c := Y.Dims()
	if c < outDim {
		return nil, errors.NewDimensionError("Network.Fit targets", outDim, c)
	}
	if c == outDim {
		return Y, nil
	}
	return Y.Slice(0, r, 0, outDim).(*mat.Dense), nil
}

// gatherRows copies the selected sample rows into fresh batch matrices.
func gatherRows(X, Y *mat.Dense, idx []int) (*mat.Dense, *mat.Dense) {
	_, xc := X.Dims()
	_, yc := Y.Dims()
	xb := mat.NewDense(len(idx), xc, nil)
	yb := mat.NewDense(len(idx), yc, nil)
	for i, src := range idx {
		xb.SetRow(i, mat.Row(nil, src, X))
		yb.SetRow(i, mat.Row(nil, src, Y))
	}
	return xb, yb
}
