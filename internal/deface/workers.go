package deface

import (
	"runtime"
	"sync"
)

// forEachSlice runs fn for every slice index on a bounded worker pool. Slices
// never share output, so no synchronization beyond the pool is needed.
func forEachSlice(slices, workers int, fn func(s int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > slices {
		workers = slices
	}
	if workers <= 1 {
		for s := 0; s < slices; s++ {
			fn(s)
		}
		return
	}

	idx := make(chan int, slices)
	for s := 0; s < slices; s++ {
		idx <- s
	}
	close(idx)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range idx {
				fn(s)
			}
		}()
	}
	wg.Wait()
}
