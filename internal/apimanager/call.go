package apimanager

//
// Calling the API
//

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/altroute/altroute/internal/altroute"
	"github.com/altroute/altroute/internal/backoff"
	"github.com/altroute/altroute/internal/logx"
	"github.com/altroute/altroute/internal/model"
)

// Call invokes fn using the primary backend and, if needed, the alternative
// routes, and returns a single result. When useBackoff is true we retry
// transient failures of the primary backend using the configured policy.
func Call[T any](ctx context.Context, m *Manager, useBackoff bool, fn model.CallFunc[T]) model.Result[T] {
	result := callPrimary(ctx, m, useBackoff, fn)

	// successes, error responses, and non-transient failures are final
	if !result.IsTransient() {
		metricCallCount.WithLabelValues("primary").Inc()
		return result
	}

	if !m.fallbackAllowed() {
		metricCallCount.WithLabelValues("fallback_not_allowed").Inc()
		return result
	}

	return race(ctx, m, result, fn)
}

// callPrimary calls fn using the primary backend.
func callPrimary[T any](ctx context.Context, m *Manager, useBackoff bool, fn model.CallFunc[T]) model.Result[T] {
	once := func(ctx context.Context) model.Result[T] {
		return fn(ctx, m.primary)
	}
	if !useBackoff {
		return once(ctx)
	}
	return backoff.Run(ctx, m.backoff, once)
}

// race races pinging the primary backend against calling the alternative
// routes and returns the result of the call as explained in the package docs.
func race[T any](ctx context.Context, m *Manager, primaryResult model.Result[T], fn model.CallFunc[T]) model.Result[T] {
	t0 := time.Now()
	defer func() {
		metricRaceDurationSeconds.Observe(time.Since(t0).Seconds())
	}()

	raceCtx, cancel := context.WithTimeout(ctx, m.dohTimeout)
	defer cancel()

	// the channels are buffered so that goroutines never block after we return
	pingch := make(chan model.Result[struct{}], 1)
	altch := make(chan model.Result[T], 1)
	go ping(raceCtx, m, pingch)
	go callAlternatives(raceCtx, m, fn, altch)

	// a nil channel blocks forever, which disables the corresponding case
	pingRecv, altRecv := pingch, altch
	for pingRecv != nil || altRecv != nil {
		select {
		case result := <-pingRecv:
			pingRecv = nil
			if !result.IsSuccess() {
				continue
			}
			// an alternative success that is already available wins ties
			if altRecv != nil {
				select {
				case altResult := <-altRecv:
					altRecv = nil
					if altResult.IsSuccess() {
						metricCallCount.WithLabelValues("alternative_success").Inc()
						return altResult
					}
				default:
				}
			}
			// the primary is reachable: the failure was specific to the request
			cancel()
			m.scheduleRefresh()
			metricCallCount.WithLabelValues("primary_reachable").Inc()
			return primaryResult

		case result := <-altRecv:
			altRecv = nil
			if result.IsSuccess() {
				metricCallCount.WithLabelValues("alternative_success").Inc()
				return result
			}

		case <-raceCtx.Done():
			return raceTimeout[T](ctx)
		}
	}

	// neither the ping nor the alternatives succeeded
	return raceTimeout[T](ctx)
}

// raceTimeout returns the failure we return when the race produced no winner.
func raceTimeout[T any](ctx context.Context) model.Result[T] {
	if errors.Is(ctx.Err(), context.Canceled) {
		metricCallCount.WithLabelValues("interrupted").Inc()
		return model.NewFailure[T](ctx.Err(), model.FailureOther)
	}
	metricCallCount.WithLabelValues("alternative_routing_timeout").Inc()
	return model.NewFailure[T](ErrAlternativeRoutingTimeout, model.FailureTimeout)
}

// ping pings the primary backend and emits the result.
func ping(ctx context.Context, m *Manager, output chan<- model.Result[struct{}]) {
	ol := logx.NewOperationLogger(m.logger, "apimanager: ping %s", m.primary.BaseRoute())
	result := m.primary.Ping(ctx)
	err := result.Err()
	if result.IsErrorResponse() {
		err = fmt.Errorf("apimanager: ping failed with status %d", result.HTTPCode())
	}
	ol.Stop(err)
	output <- result
}

// callAlternatives calls fn using the alternative routes, discovering
// them first if needed, and emits the result.
func callAlternatives[T any](ctx context.Context, m *Manager, fn model.CallFunc[T], output chan<- model.Result[T]) {
	if err := m.alternatives.EnsureDomains(ctx); err != nil {
		m.logger.Warnf("apimanager: %s", err.Error())
		// fallthrough: with no routes the call below reports unavailability
	}
	if err := ctx.Err(); err != nil {
		output <- model.NewFailure[T](err, model.FailureOther)
		return
	}
	result, good := altroute.CallWithAlternatives(ctx, m.alternatives, fn)
	if !good {
		result = model.NewFailure[T](errNoAlternativeRoutes, model.FailureOther)
	}
	output <- result
}
