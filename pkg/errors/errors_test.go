package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("Scaler", "Transform")

	var target *NotFittedError
	if !As(err, &target) {
		t.Fatalf("expected NotFittedError in chain, got %v", err)
	}
	if target.Estimator != "Scaler" || target.Method != "Transform" {
		t.Errorf("unexpected fields: %+v", target)
	}
	if !strings.Contains(err.Error(), "not fitted yet") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestDimensionError(t *testing.T) {
	err := NewDimensionError("TimeSplit", 100, 3)

	var target *DimensionError
	if !As(err, &target) {
		t.Fatalf("expected DimensionError in chain, got %v", err)
	}
	if target.Expected != 100 || target.Got != 3 {
		t.Errorf("unexpected fields: %+v", target)
	}
}

func TestShortSeriesError(t *testing.T) {
	err := NewShortSeriesError("MakeWindows", 40, 150)

	var target *ShortSeriesError
	if !As(err, &target) {
		t.Fatalf("expected ShortSeriesError in chain, got %v", err)
	}
	if target.Length != 40 || target.Required != 150 {
		t.Errorf("unexpected fields: %+v", target)
	}
}

func TestEmptyPredictionError(t *testing.T) {
	err := NewEmptyPredictionError("mlp", "P001")
	if !strings.Contains(err.Error(), "mlp/P001") {
		t.Errorf("unexpected message: %s", err.Error())
	}

	bare := &EmptyPredictionError{}
	if !strings.Contains(bare.Error(), "empty prediction") {
		t.Errorf("unexpected message: %s", bare.Error())
	}
}

func TestIsArtifactNotFound(t *testing.T) {
	err := NewArtifactNotFoundError("predictor/mlp/P001")
	if !IsArtifactNotFound(err) {
		t.Error("expected IsArtifactNotFound to be true")
	}
	if IsArtifactNotFound(New("something else")) {
		t.Error("expected IsArtifactNotFound to be false for unrelated error")
	}

	wrapped := Wrap(err, "loading predictor")
	if !IsArtifactNotFound(wrapped) {
		t.Error("expected IsArtifactNotFound to survive wrapping")
	}
}

func TestWrapPreservesChain(t *testing.T) {
	base := stderrors.New("base")
	wrapped := Wrapf(base, "context %d", 42)
	if !Is(wrapped, base) {
		t.Error("expected wrapped error to match base")
	}
}
