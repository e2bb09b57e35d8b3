package altroute

//
// Racing alternative routes
//

import (
	"context"

	"github.com/altroute/altroute/internal/logx"
	"github.com/altroute/altroute/internal/model"
)

// raceOutcome is the outcome of calling an alternative backend.
type raceOutcome[T any] struct {
	backend model.Backend
	result  model.Result[T]
}

// CallWithAlternatives invokes fn concurrently against every known alternative
// route and returns the first success, cancelling the calls still in flight.
// The winning backend becomes the active route unless ctx is already done
// when the success arrives. When no call succeeds, we return the first
// non-success result we observed.
//
// The boolean return value is false when we do not know any alternative
// route, meaning that alternative routing is not available right now.
//
// This function creates a goroutine for each route under the assumption
// that the overall number of routes is small.
func CallWithAlternatives[T any](
	ctx context.Context, c *Coordinator, fn model.CallFunc[T]) (model.Result[T], bool) {
	backends := c.backends()
	if len(backends) <= 0 {
		metricRaceCount.WithLabelValues("unavailable").Inc()
		return model.Result[T]{}, false
	}

	// create cancellable context for early cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// the channel is buffered so that goroutines never block after we return
	output := make(chan *raceOutcome[T], len(backends))
	for _, backend := range backends {
		go call(ctx, c, backend, fn, output)
	}

	var first *raceOutcome[T]
	for idx := 0; idx < len(backends); idx++ {
		outcome := <-output
		if outcome.result.IsSuccess() {
			if ctx.Err() == nil {
				c.setActive(outcome.backend)
			}
			metricRaceCount.WithLabelValues("success").Inc()
			return outcome.result, true
		}
		if first == nil {
			first = outcome
		}
	}
	metricRaceCount.WithLabelValues("failure").Inc()
	return first.result, true
}

// call calls fn with the given backend and emits the outcome.
func call[T any](ctx context.Context, c *Coordinator, backend model.Backend,
	fn model.CallFunc[T], output chan<- *raceOutcome[T]) {
	ol := logx.NewOperationLogger(c.logger, "altroute: call using %s", backend.BaseRoute())
	result := fn(ctx, backend)
	ol.Stop(resultToError(result))
	output <- &raceOutcome[T]{backend: backend, result: result}
}

// resultToError maps a result to an error for logging purposes.
func resultToError[T any](result model.Result[T]) (err error) {
	result.Match(
		func(value T) {},
		func(httpCode int, body string) { err = &errErrorResponse{httpCode} },
		func(failure error, kind model.FailureKind) { err = failure },
	)
	return
}
