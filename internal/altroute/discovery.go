package altroute

//
// Discovering alternative routes using DoH
//

import (
	"context"
	"errors"
	"fmt"

	"github.com/altroute/altroute/internal/logx"
)

// ErrDiscoveryFailed indicates that no DoH provider could resolve the domain.
var ErrDiscoveryFailed = errors.New("altroute: discovery failed")

// errNoProviders is the cause of [ErrDiscoveryFailed] when we have no providers.
var errNoProviders = errors.New("altroute: no DoH providers")

// RefreshDomains unconditionally discovers the alternative routes. On
// success, the discovered routes replace the previous ones and are
// persisted. On failure, previous routes remain valid and usable.
//
// Concurrent invocations are coalesced into a single discovery, which is
// not bound to the context of any caller and is bounded by the discovery
// timeout instead. When ctx is done before the discovery completes, we
// return early and the discovery continues for the other callers.
func (c *Coordinator) RefreshDomains(ctx context.Context) error {
	resch := c.group.DoChan("refresh", func() (any, error) {
		discoveryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.discoveryTimeout)
		defer cancel()
		return nil, c.refresh(discoveryCtx)
	})
	select {
	case res := <-resch:
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrDiscoveryFailed, ctx.Err())
	}
}

// EnsureDomains is like [*Coordinator.RefreshDomains] but only discovers
// when we do not know any alternative route yet.
func (c *Coordinator) EnsureDomains(ctx context.Context) error {
	if len(c.backends()) > 0 {
		return nil
	}
	return c.RefreshDomains(ctx)
}

// refresh discovers and commits the alternative routes.
func (c *Coordinator) refresh(ctx context.Context) error {
	routes, err := c.discover(ctx)
	if err != nil {
		metricDiscoveryCount.WithLabelValues("failure").Inc()
		return err
	}
	metricDiscoveryCount.WithLabelValues("success").Inc()
	c.commit(routes)
	return nil
}

// discover tries the providers in order and returns the routes
// resolved by the first provider that answers.
func (c *Coordinator) discover(ctx context.Context) ([]string, error) {
	if len(c.providers) <= 0 {
		return nil, fmt.Errorf("%w: %w", ErrDiscoveryFailed, errNoProviders)
	}
	var errv []error
	for _, provider := range c.providers {
		ol := logx.NewOperationLogger(c.logger, "altroute: resolve %s using %s", c.domain, provider.Address())
		routes, err := provider.Resolve(ctx, c.domain)
		ol.Stop(err)
		if err != nil {
			errv = append(errv, err)
			continue
		}
		return routes, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrDiscoveryFailed, errors.Join(errv...))
}

// commit replaces the known routes and persists them.
func (c *Coordinator) commit(routes []string) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	now := c.timeNow()
	backends := c.backendsFromRoutes(routes)

	c.mu.Lock()
	c.routes = backends
	c.lastRefresh = now
	c.mu.Unlock()

	c.logger.Infof("altroute: discovered %d alternative routes", len(routes))

	state := &serializedState{
		Domain:      c.domain,
		LastRefresh: now,
		Routes:      append([]string{}, routes...),
		Version:     serializedDataFormatVersion,
	}
	if err := state.store(c.kvStore); err != nil {
		c.logger.Warnf("altroute: cannot persist routes: %s", err.Error())
	}
}
