// Package parallel provides the bounded fan-out used to process independent
// per-product units. Each index is handled by exactly one worker, so writes
// keyed by that unit need no further serialization.
package parallel

import (
	"sync"
)

// ForEach runs fn(i) for every i in [0, items) using at most workers
// goroutines. With workers <= 1 the indices run sequentially in order, which
// keeps the default pipeline deterministic.
func ForEach(items, workers int, fn func(i int)) {
	if items <= 0 {
		return
	}
	if workers > items {
		workers = items
	}
	if workers <= 1 {
		for i := 0; i < items; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	next := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				fn(i)
			}
		}()
	}

	for i := 0; i < items; i++ {
		next <- i
	}
	close(next)
	wg.Wait()
}
