// Package altroute discovers, persists, and races alternative routes
// to the API, remembering the last route that worked.
//
// Alternative routes are discovered by asking a chain of DNS-over-HTTPS
// providers, strictly in order, and committing to the first provider
// that answers. Discovered routes are persisted into a key-value store
// so that a new [*Coordinator] can use them without discovering again.
package altroute

import (
	"sync"
	"time"

	"github.com/altroute/altroute/internal/model"
	"github.com/altroute/altroute/internal/runtimex"
	"golang.org/x/sync/singleflight"
)

// DefaultDiscoveryTimeout is the default value of [Config.DiscoveryTimeout].
const DefaultDiscoveryTimeout = 60 * time.Second

// Config contains configuration for [NewCoordinator].
type Config struct {
	// ActivePeriod is the MANDATORY time during which the alternative
	// route that last won a race remains the active route.
	ActivePeriod time.Duration

	// DiscoveryTimeout is the OPTIONAL maximum duration of a discovery. When
	// zero or negative, we use [DefaultDiscoveryTimeout].
	DiscoveryTimeout time.Duration

	// Domain is the MANDATORY domain we resolve to discover routes.
	Domain string

	// KVStore is the MANDATORY key-value store to use.
	KVStore model.KeyValueStore

	// Logger is the OPTIONAL logger to use.
	Logger model.Logger

	// NewBackend is the MANDATORY factory for backends.
	NewBackend model.NewBackendFunc

	// Providers contains the DoH providers to try in order. When
	// empty, discovery always fails.
	Providers []model.DoHProvider

	// TimeNow is the OPTIONAL function returning the current time.
	TimeNow func() time.Time
}

// Coordinator owns the alternative routes.
//
// The zero value is invalid; please, construct using [NewCoordinator].
type Coordinator struct {
	activePeriod     time.Duration
	discoveryTimeout time.Duration
	domain           string
	kvStore          model.KeyValueStore
	logger           model.Logger
	newBackend       model.NewBackendFunc
	providers        []model.DoHProvider
	timeNow          func() time.Time

	// group coalesces concurrent discoveries.
	group singleflight.Group

	// commitMu serializes committing discovered routes.
	commitMu sync.Mutex

	// mu protects routes, lastRefresh, and active.
	mu          sync.Mutex
	routes      []model.Backend
	lastRefresh time.Time
	active      *activeRoute
}

// NewCoordinator creates a new [*Coordinator] and loads the routes
// previously persisted into the key-value store, if any.
func NewCoordinator(config *Config) *Coordinator {
	runtimex.Assert(config.ActivePeriod > 0, "altroute: ActivePeriod must be positive")
	runtimex.Assert(config.Domain != "", "altroute: Domain is empty")
	runtimex.Assert(config.KVStore != nil, "altroute: KVStore is nil")
	runtimex.Assert(config.NewBackend != nil, "altroute: NewBackend is nil")
	timeNow := config.TimeNow
	if timeNow == nil {
		timeNow = time.Now
	}
	discoveryTimeout := config.DiscoveryTimeout
	if discoveryTimeout <= 0 {
		discoveryTimeout = DefaultDiscoveryTimeout
	}
	c := &Coordinator{
		activePeriod:     config.ActivePeriod,
		discoveryTimeout: discoveryTimeout,
		domain:           config.Domain,
		kvStore:          config.KVStore,
		logger:           model.ValidLoggerOrDefault(config.Logger),
		newBackend:       config.NewBackend,
		providers:        append([]model.DoHProvider{}, config.Providers...),
		timeNow:          timeNow,
	}
	c.loadPersistedRoutes()
	return c
}

// loadPersistedRoutes initializes the routes from the key-value store.
func (c *Coordinator) loadPersistedRoutes() {
	state, err := loadSerializedState(c.kvStore)
	if err != nil {
		c.logger.Debugf("altroute: no persisted routes: %s", err.Error())
		return
	}
	if state.Domain != c.domain {
		c.logger.Debugf("altroute: ignoring persisted routes for %s", state.Domain)
		return
	}
	c.routes = c.backendsFromRoutes(state.Routes)
	c.lastRefresh = state.LastRefresh
}

// backendsFromRoutes maps base routes to backends.
func (c *Coordinator) backendsFromRoutes(routes []string) []model.Backend {
	out := make([]model.Backend, 0, len(routes))
	for _, route := range routes {
		out = append(out, c.newBackend(route))
	}
	return out
}

// Routes returns a copy of the alternative routes we know.
func (c *Coordinator) Routes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.routes))
	for _, backend := range c.routes {
		out = append(out, backend.BaseRoute())
	}
	return out
}

// LastRefresh returns the time of the last successful discovery.
func (c *Coordinator) LastRefresh() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRefresh
}

// backends returns a copy of the known backends.
func (c *Coordinator) backends() []model.Backend {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Backend{}, c.routes...)
}
