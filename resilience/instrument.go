package resilience

import (
	"context"

	"github.com/jonwraymond/modelops/observe"
)

// InstrumentBreaker returns an OnStateChange callback that records state
// transitions for the named service on the given metrics sink. Assign it
// to Config.OnStateChange when constructing a breaker.
func InstrumentBreaker(service string, metrics observe.Metrics) func(from, to State) {
	return func(from, to State) {
		metrics.RecordBreakerTransition(context.Background(), service, from.String(), to.String())
	}
}
