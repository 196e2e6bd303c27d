// Package errors provides structured error types for the forecasting
// pipeline, built on cockroachdb/errors so every error carries a stack
// trace and can be rendered as a structured zerolog object.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// NotFittedError is returned when Transform, InverseTransform or Predict is
// called on an estimator that has not been fitted yet.
type NotFittedError struct {
	Estimator string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("demandcast: %s: not fitted yet, call Fit() before %s()", e.Estimator, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("estimator", e.Estimator).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace attached.
func NewNotFittedError(estimator, method string) error {
	return errors.WithStack(&NotFittedError{Estimator: estimator, Method: method})
}

// DimensionError reports an input whose length or shape does not match what
// an operation expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("demandcast: %s: dimension mismatch, expected %d, got %d", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace attached.
func NewDimensionError(op string, expected, got int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got})
}

// ShortSeriesError is the fatal configuration error raised when a series is
// too short to produce a single (input, target) window.
type ShortSeriesError struct {
	Op       string
	Length   int
	Required int
}

func (e *ShortSeriesError) Error() string {
	return fmt.Sprintf("demandcast: %s: series too short, length %d requires at least %d", e.Op, e.Length, e.Required)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ShortSeriesError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("length", e.Length).
		Int("required", e.Required).
		Str("type", "ShortSeriesError")
}

// NewShortSeriesError creates a ShortSeriesError with a stack trace attached.
func NewShortSeriesError(op string, length, required int) error {
	return errors.WithStack(&ShortSeriesError{Op: op, Length: length, Required: required})
}

// EmptyPredictionError signals a predictor contract violation: Predict
// returned no values for a non-empty input batch.
type EmptyPredictionError struct {
	Architecture string
	Product      string
}

func (e *EmptyPredictionError) Error() string {
	if e.Architecture == "" {
		return "demandcast: predictor returned an empty prediction"
	}
	return fmt.Sprintf("demandcast: %s/%s: predictor returned an empty prediction", e.Architecture, e.Product)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *EmptyPredictionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("architecture", e.Architecture).
		Str("product", e.Product).
		Str("type", "EmptyPredictionError")
}

// NewEmptyPredictionError creates an EmptyPredictionError with a stack trace.
func NewEmptyPredictionError(architecture, product string) error {
	return errors.WithStack(&EmptyPredictionError{Architecture: architecture, Product: product})
}

// ValueError reports an argument whose value is invalid for an operation,
// such as a validation span that is not strictly between 0 and the sample
// count.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("demandcast: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ArtifactNotFoundError is returned by artifact stores when a key has no
// value. Flows treat it as a non-fatal skip, never as a failure.
type ArtifactNotFoundError struct {
	Key string
}

func (e *ArtifactNotFoundError) Error() string {
	return fmt.Sprintf("demandcast: artifact not found: %s", e.Key)
}

// NewArtifactNotFoundError creates an ArtifactNotFoundError with a stack trace.
func NewArtifactNotFoundError(key string) error {
	return errors.WithStack(&ArtifactNotFoundError{Key: key})
}

// IsArtifactNotFound reports whether err is an ArtifactNotFoundError.
func IsArtifactNotFound(err error) bool {
	var target *ArtifactNotFoundError
	return errors.As(err, &target)
}

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}
