// Package preprocessing implements the per-series standardization used by
// every predictor architecture.
package preprocessing

import (
	"encoding/json"
	"fmt"
	"math"

	"demandcast/core/model"
	"demandcast/pkg/errors"
)

// Scaler standardizes a single daily series to (x - mean) / std units.
//
// The std is the population standard deviation (divide by n, no Bessel
// correction), matching how the training flow fits it; persisted scalers
// round-trip bit-for-bit because both sides apply the same estimator and the
// same guard. A fitted std <= 0 is kept as-is and a guard of 1.0 is used at
// transform time, on both Transform and InverseTransform.
type Scaler struct {
	model.BaseEstimator

	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// NewScaler creates an already-fitted scaler from known statistics.
func NewScaler(mean, std float64) *Scaler {
	s := &Scaler{Mean: mean, Std: std}
	s.SetFitted()
	return s
}

// Fit computes the mean and population standard deviation of values.
// The training flow must pass only the training slice of the series, never
// the validation span, to avoid leakage.
func (s *Scaler) Fit(values []float64) error {
	if len(values) == 0 {
		return errors.NewValueError("Scaler.Fit", "empty sample")
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}

	s.Mean = mean
	s.Std = math.Sqrt(sumSq / float64(len(values)))
	s.SetFitted()
	return nil
}

// scale returns the guarded divisor: the fitted std, or 1.0 when it is not
// strictly positive.
func (s *Scaler) scale() float64 {
	if s.Std > 0 {
		return s.Std
	}
	return 1.0
}

// Transform standardizes values into z-space.
func (s *Scaler) Transform(values []float64) ([]float64, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("Scaler", "Transform")
	}
	out := make([]float64, len(values))
	scale := s.scale()
	for i, v := range values {
		out[i] = (v - s.Mean) / scale
	}
	return out, nil
}

// InverseTransform maps z-space values back to original units using the same
// guard as Transform.
func (s *Scaler) InverseTransform(values []float64) ([]float64, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("Scaler", "InverseTransform")
	}
	out := make([]float64, len(values))
	scale := s.scale()
	for i, v := range values {
		out[i] = v*scale + s.Mean
	}
	return out, nil
}

// MarshalArtifact serializes the scaler as the small keyed {mean, std}
// record stored per product.
func (s *Scaler) MarshalArtifact() ([]byte, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("Scaler", "MarshalArtifact")
	}
	return json.Marshal(s)
}

// LoadScaler restores a scaler from its persisted {mean, std} record.
func LoadScaler(data []byte) (*Scaler, error) {
	var s Scaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "decoding scaler artifact")
	}
	s.SetFitted()
	return &s, nil
}

// String renders the fitted statistics, mainly for logs.
func (s *Scaler) String() string {
	if !s.IsFitted() {
		return "Scaler(unfitted)"
	}
	return fmt.Sprintf("Scaler(mean=%.4f, std=%.4f)", s.Mean, s.Std)
}
