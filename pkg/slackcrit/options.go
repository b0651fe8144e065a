// Package slackcrit derives per-pin slack and criticality from the results
// of setup and hold timing analysis, updating incrementally where the
// analysis allows it. Placement and routing optimizers read the per-pin
// values between update passes to weight their cost functions.
package slackcrit

import (
	"fmt"
	"math"

	"github.com/dd0wney/cluso-timing/pkg/logging"
	"github.com/dd0wney/cluso-timing/pkg/metrics"
	"github.com/dd0wney/cluso-timing/pkg/parallel"
)

// Options configures an engine at construction time.
type Options struct {
	// Executor runs the independent units of work within one update
	// call. Defaults to parallel.Sequential.
	Executor parallel.Executor

	// Logger receives per-pass structured logs. Defaults to a no-op.
	Logger logging.Logger

	// Metrics, when non-nil, receives update-pass instrumentation.
	Metrics *metrics.Registry
}

// DefaultOptions returns sequential execution with no logging or metrics.
func DefaultOptions() Options {
	return Options{
		Executor: parallel.Sequential{},
		Logger:   logging.NopLogger{},
	}
}

func (o Options) normalized() Options {
	if o.Executor == nil {
		o.Executor = parallel.Sequential{}
	}
	if o.Logger == nil {
		o.Logger = logging.NopLogger{}
	}
	return o
}

// nanSlice returns a per-pin array with every entry undefined until the
// first update pass writes it.
func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// assertf signals a contract breach (malformed tags, broken pin/node
// association, out-of-range criticality). These are defects in upstream
// collaborators, not recoverable runtime conditions.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic("slackcrit: " + fmt.Sprintf(format, args...))
	}
}
