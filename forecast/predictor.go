// Package forecast defines the predictor capability contract and the
// multi-step forecast generation around it: iterative self-feeding for
// single-output models and direct multi-step for multi-output models.
package forecast

import (
	"encoding"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"

	"demandcast/pkg/errors"
)

// TrainingHistory is the ordered per-epoch (training loss, validation loss)
// record returned by Fit. Both slices have one entry per completed epoch.
type TrainingHistory struct {
	Loss    []float64 `json:"loss"`
	ValLoss []float64 `json:"val_loss"`
}

// Predictor is the capability every interchangeable architecture satisfies.
// One instance lives per (architecture, product); Fit must implement
// early-stopping semantics (stop when validation loss stops improving for a
// patience window, restore the best-seen weights) and Predict must be safe
// to treat as read-only after loading.
type Predictor interface {
	// Fit trains on the training samples while monitoring validation loss.
	Fit(XTr, YTr, XVa, YVa *mat.Dense) (*TrainingHistory, error)

	// Predict maps a batch of input windows to a batch of outputs, one row
	// per window.
	Predict(X *mat.Dense) (*mat.Dense, error)

	// OutputDim declares the output arity: 1 selects iterative forecasting,
	// anything larger selects direct multi-step forecasting.
	OutputDim() int

	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// TrainConfig carries the tunable training hyperparameters shared by all
// architectures.
type TrainConfig struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	Patience     int
	Seed         int64
}

// Builder constructs an untrained predictor for a given input window length
// and forecast horizon.
type Builder func(lookback, horizon int, cfg TrainConfig) Predictor

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Builder)
)

// Register makes an architecture available under a tag. It is intended to be
// called from package init functions, in the manner of database/sql drivers.
// Registering a duplicate tag panics.
func Register(tag string, builder Builder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[tag]; dup {
		panic("forecast: Register called twice for architecture " + tag)
	}
	registry[tag] = builder
}

// NewPredictor builds an untrained predictor for a registered architecture.
func NewPredictor(tag string, lookback, horizon int, cfg TrainConfig) (Predictor, error) {
	registryMu.RLock()
	builder, ok := registry[tag]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Newf("forecast: unknown architecture %q", tag)
	}
	return builder(lookback, horizon, cfg), nil
}

// LoadPredictor rebuilds a predictor of a registered architecture from its
// persisted artifact bytes.
func LoadPredictor(tag string, lookback, horizon int, cfg TrainConfig, artifact []byte) (Predictor, error) {
	p, err := NewPredictor(tag, lookback, horizon, cfg)
	if err != nil {
		return nil, err
	}
	if err := p.UnmarshalBinary(artifact); err != nil {
		return nil, errors.Wrapf(err, "loading %s predictor", tag)
	}
	return p, nil
}

// Architectures lists the registered tags in sorted order.
func Architectures() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	tags := make([]string, 0, len(registry))
	for tag := range registry {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
