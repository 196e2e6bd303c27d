package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForEachVisitsEveryIndex(t *testing.T) {
	for _, workers := range []int{1, 4, 16} {
		var hits [100]int32
		ForEach(100, workers, func(i int) {
			atomic.AddInt32(&hits[i], 1)
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("workers=%d: index %d visited %d times", workers, i, h)
			}
		}
	}
}

func TestForEachSequentialOrder(t *testing.T) {
	var order []int
	ForEach(5, 1, func(i int) {
		order = append(order, i)
	})
	for i, got := range order {
		if got != i {
			t.Fatalf("expected sequential order, got %v", order)
		}
	}
}

func TestForEachZeroItems(t *testing.T) {
	called := false
	ForEach(0, 8, func(i int) { called = true })
	if called {
		t.Error("fn must not be called for zero items")
	}
}
