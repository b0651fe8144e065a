package parallel

import (
	"fmt"
	"math"
	"runtime"
	"sync"
)

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// Pool is an Executor bounded to a fixed degree of concurrency. It spawns
// goroutines per call rather than keeping a resident worker set, so it is
// reusable across update passes, safe for nested use, and panics from tasks
// propagate to the caller's process (assertion failures in engine code are
// defects and must stay fatal rather than being swallowed by a worker).
type Pool struct {
	workers int
}

// NewPool creates a pool bounded to the specified number of workers.
// workers <= 0 means runtime.NumCPU(). Returns an error if the worker
// count exceeds MaxWorkers.
func NewPool(workers int) (*Pool, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	// Prevent overflow in chunk size calculation
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}
	return &Pool{workers: workers}, nil
}

// Workers returns the pool's concurrency bound.
func (p *Pool) Workers() int { return p.workers }

// Go runs each task on its own goroutine and waits for all of them.
func (p *Pool) Go(tasks ...func()) {
	if len(tasks) == 1 {
		tasks[0]()
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for _, task := range tasks {
		task := task
		go func() {
			defer wg.Done()
			task()
		}()
	}
	wg.Wait()
}

// ForEach partitions [0, n) into contiguous chunks, one per worker, and
// processes the chunks concurrently. Contiguous chunks keep each worker's
// writes on distinct, mostly-adjacent array slots.
func (p *Pool) ForEach(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := p.workers
	if workers > n {
		workers = n
	}
	if workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	// Overflow-safe ceiling division, as in the chunked traversals this
	// pool was derived from.
	chunkSize := int((int64(n) + int64(workers) - 1) / int64(workers))
	if chunkSize < 1 {
		chunkSize = 1
	}

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}
