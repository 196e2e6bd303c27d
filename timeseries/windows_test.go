package timeseries

import (
	"testing"

	"demandcast/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func TestMakeWindowsCount(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		lookback int
		horizon  int
		want     int
		wantErr  bool
	}{
		{name: "exact fit", n: 10, lookback: 7, horizon: 3, want: 1},
		{name: "typical", n: 200, lookback: 60, horizon: 90, want: 51},
		{name: "one-step targets", n: 10, lookback: 4, horizon: 1, want: 6},
		{name: "too short", n: 149, lookback: 60, horizon: 90, wantErr: true},
		{name: "empty", n: 0, lookback: 60, horizon: 90, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			X, Y, err := MakeWindows(seq(tt.n), tt.lookback, tt.horizon)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				var target *errors.ShortSeriesError
				if !errors.As(err, &target) {
					t.Errorf("expected ShortSeriesError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("MakeWindows failed: %v", err)
			}
			xr, xc := X.Dims()
			yr, yc := Y.Dims()
			if xr != tt.want || yr != tt.want {
				t.Errorf("samples = %d/%d, want %d", xr, yr, tt.want)
			}
			if xc != tt.lookback || yc != tt.horizon {
				t.Errorf("shapes = (%d, %d), want (%d, %d)", xc, yc, tt.lookback, tt.horizon)
			}
		})
	}
}

// Input and target of each sample are contiguous and disjoint: sample i is
// series[i:i+L] followed immediately by series[i+L:i+L+H].
func TestMakeWindowsContiguity(t *testing.T) {
	X, Y, err := MakeWindows(seq(12), 4, 2)
	if err != nil {
		t.Fatalf("MakeWindows failed: %v", err)
	}

	n, _ := X.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < 4; j++ {
			if got := X.At(i, j); got != float64(i+j) {
				t.Errorf("X[%d,%d] = %f, want %d", i, j, got, i+j)
			}
		}
		for j := 0; j < 2; j++ {
			if got := Y.At(i, j); got != float64(i+4+j) {
				t.Errorf("Y[%d,%d] = %f, want %d", i, j, got, i+4+j)
			}
		}
	}
}

func TestTimeSplit(t *testing.T) {
	X, Y, err := MakeWindows(seq(20), 5, 1)
	if err != nil {
		t.Fatalf("MakeWindows failed: %v", err)
	}
	n, _ := X.Dims() // 15 samples

	XTr, XVa, YTr, YVa, err := TimeSplit(X, Y, 4)
	if err != nil {
		t.Fatalf("TimeSplit failed: %v", err)
	}

	trN, _ := XTr.Dims()
	vaN, _ := XVa.Dims()
	if trN != n-4 || vaN != 4 {
		t.Fatalf("split sizes = %d/%d, want %d/4", trN, vaN, n-4)
	}

	// Order preserved: validation is exactly the last 4 samples.
	for i := 0; i < vaN; i++ {
		if XVa.At(i, 0) != X.At(trN+i, 0) || YVa.At(i, 0) != Y.At(trN+i, 0) {
			t.Errorf("validation sample %d is not the original sample %d", i, trN+i)
		}
	}
	if XTr.At(0, 0) != X.At(0, 0) {
		t.Error("training must start at the first sample")
	}
	_ = YTr
}

func TestTimeSplitRejectsBadValLen(t *testing.T) {
	X := mat.NewDense(10, 3, nil)
	Y := mat.NewDense(10, 1, nil)

	for _, valLen := range []int{0, -1, 10, 11} {
		if _, _, _, _, err := TimeSplit(X, Y, valLen); err == nil {
			t.Errorf("valLen=%d: expected error", valLen)
		}
	}
}

func TestTimeSplitRejectsMismatchedRows(t *testing.T) {
	X := mat.NewDense(10, 3, nil)
	Y := mat.NewDense(9, 1, nil)
	if _, _, _, _, err := TimeSplit(X, Y, 2); err == nil {
		t.Error("expected dimension error")
	}
}
