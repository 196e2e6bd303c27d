package metrics

import (
	"math"
	"testing"
)

func TestMAE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{name: "perfect", yTrue: []float64{1, 2, 3}, yPred: []float64{1, 2, 3}, want: 0},
		{name: "simple", yTrue: []float64{1, 2, 3, 4}, yPred: []float64{1.5, 2.5, 2.5, 3.5}, want: 0.5},
		{name: "dimension mismatch", yTrue: []float64{1, 2}, yPred: []float64{1}, wantErr: true},
		{name: "empty", yTrue: nil, yPred: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MAE(tt.yTrue, tt.yPred)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("MAE failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("MAE = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestMSEAndRMSE(t *testing.T) {
	yTrue := []float64{10, 20, 30}
	yPred := []float64{12, 18, 33}

	mse, err := MSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MSE failed: %v", err)
	}
	if want := 17.0 / 3.0; math.Abs(mse-want) > 1e-10 {
		t.Errorf("MSE = %f, want %f", mse, want)
	}

	rmse, err := RMSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("RMSE failed: %v", err)
	}
	if want := math.Sqrt(17.0 / 3.0); math.Abs(rmse-want) > 1e-10 {
		t.Errorf("RMSE = %f, want %f", rmse, want)
	}
}

func TestSafeMAPEZeroTrueGuard(t *testing.T) {
	// A zero true value floors the denominator at eps instead of producing
	// NaN or Inf.
	got, err := SafeMAPE([]float64{0, 10}, []float64{1, 10})
	if err != nil {
		t.Fatalf("SafeMAPE failed: %v", err)
	}
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("SafeMAPE = %f, must be finite", got)
	}
	if got < 0 {
		t.Errorf("SafeMAPE = %f, must be non-negative", got)
	}
}

func TestSafeMAPEExact(t *testing.T) {
	got, err := SafeMAPE([]float64{4, 5, 6}, []float64{3, 4, 5})
	if err != nil {
		t.Fatalf("SafeMAPE failed: %v", err)
	}
	want := (0.25 + 0.2 + 1.0/6.0) / 3.0 * 100.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("SafeMAPE = %f, want %f", got, want)
	}
}

func TestSMAPEBounds(t *testing.T) {
	// Perfect prediction: 0. Opposite signs maximize SMAPE at 200.
	zero, err := SMAPE([]float64{5, 5}, []float64{5, 5})
	if err != nil {
		t.Fatalf("SMAPE failed: %v", err)
	}
	if zero != 0 {
		t.Errorf("SMAPE of perfect prediction = %f, want 0", zero)
	}

	max, err := SMAPE([]float64{1, 2}, []float64{-1, -2})
	if err != nil {
		t.Fatalf("SMAPE failed: %v", err)
	}
	if max > 200+1e-9 {
		t.Errorf("SMAPE = %f, must not exceed 200", max)
	}

	mixed, err := SMAPE([]float64{0, 3}, []float64{0, 4})
	if err != nil {
		t.Fatalf("SMAPE failed: %v", err)
	}
	if mixed < 0 || math.IsNaN(mixed) {
		t.Errorf("SMAPE = %f, must be finite and non-negative", mixed)
	}
}

func TestBiasSign(t *testing.T) {
	over, err := Bias([]float64{10, 10}, []float64{12, 14})
	if err != nil {
		t.Fatalf("Bias failed: %v", err)
	}
	if over != 3 {
		t.Errorf("Bias = %f, want 3 (positive = over-forecast)", over)
	}

	under, err := Bias([]float64{10, 10}, []float64{8, 6})
	if err != nil {
		t.Fatalf("Bias failed: %v", err)
	}
	if under != -3 {
		t.Errorf("Bias = %f, want -3", under)
	}
}

func TestCoverage(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}
	lower := []float64{0, 0, 3.5, 3}
	upper := []float64{2, 1, 4.0, 5}

	got, err := Coverage(yTrue, lower, upper)
	if err != nil {
		t.Fatalf("Coverage failed: %v", err)
	}
	if got != 50 {
		t.Errorf("Coverage = %f, want 50", got)
	}

	full, err := Coverage(yTrue, []float64{0, 0, 0, 0}, []float64{9, 9, 9, 9})
	if err != nil {
		t.Fatalf("Coverage failed: %v", err)
	}
	if full != 100 {
		t.Errorf("Coverage = %f, want 100 when every point is inside", full)
	}
}

func TestRateMAPE(t *testing.T) {
	tests := []struct {
		mape float64
		want string
	}{
		{0, "good"},
		{10, "good"},
		{10.01, "medium"},
		{20, "medium"},
		{20.01, "poor"},
		{150, "poor"},
	}
	for _, tt := range tests {
		if got := RateMAPE(tt.mape); got != tt.want {
			t.Errorf("RateMAPE(%f) = %q, want %q", tt.mape, got, tt.want)
		}
	}
}
