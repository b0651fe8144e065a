// Package parallel provides the fork-join execution strategies used by the
// slack/criticality engines. Engine code is written once against Executor;
// only the execution strategy varies between the sequential fallback and
// the bounded worker pool.
package parallel

// Executor runs independent units of work. Implementations must guarantee
// that both methods return only after every task has completed (fork-join),
// and must support nesting: a task passed to Go may itself call ForEach.
//
// Callers are responsible for task independence. ForEach is intended for
// data-parallel maps where distinct indices write distinct array slots; no
// locking is performed on the caller's behalf.
type Executor interface {
	// Go runs the given tasks, potentially concurrently, and waits for
	// all of them.
	Go(tasks ...func())

	// ForEach invokes fn for every i in [0, n), potentially concurrently,
	// and waits for all invocations.
	ForEach(n int, fn func(i int))
}

// Sequential executes everything in order on the calling goroutine. It is
// the fallback strategy and the reference for result equivalence: any
// Executor must produce bit-identical engine results to Sequential.
type Sequential struct{}

func (Sequential) Go(tasks ...func()) {
	for _, task := range tasks {
		task()
	}
}

func (Sequential) ForEach(n int, fn func(i int)) {
	for i := 0; i < n; i++ {
		fn(i)
	}
}
