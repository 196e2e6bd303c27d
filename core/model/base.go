// Package model holds the shared estimator plumbing used by the scaler and
// the predictor architectures: fitted-state tracking and binary artifact
// encoding.
package model

// EstimatorState represents the training state of an estimator.
type EstimatorState int

const (
	// NotFitted means the estimator has not been trained.
	NotFitted EstimatorState = iota
	// Fitted means the estimator has been trained and is usable.
	Fitted
)

// BaseEstimator is embedded by every fittable component so that Transform
// and Predict can refuse to run before Fit.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the estimator has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
