// Package apimanager calls the API using the primary route and, when the
// primary route looks unreachable, alternative routes discovered using
// DNS over HTTPS.
//
// Every call goes through these stages:
//
// 1. we call the primary backend, optionally retrying transient failures
// with exponential backoff;
//
// 2. we return successes, error responses, and non-transient failures
// because the primary route was reached or the failure is not about routing;
//
// 3. we return transient failures when alternative routing is disabled by
// the user or when a tunnel is active;
//
// 4. otherwise, we race pinging the primary backend against calling the
// alternative routes, within a single deadline. A successful ping means the
// failure was specific to the request, so we return the original failure and
// refresh the alternative routes in the background. A successful alternative
// call wins, including when it is already available as the ping succeeds.
// When nothing succeeds in time, we return a timeout failure.
package apimanager

import (
	"context"
	"errors"
	"time"

	"github.com/altroute/altroute/internal/altroute"
	"github.com/altroute/altroute/internal/backoff"
	"github.com/altroute/altroute/internal/model"
	"github.com/altroute/altroute/internal/runtimex"
)

// DefaultDoHTimeout is the default deadline for racing alternative routes.
const DefaultDoHTimeout = 60 * time.Second

// ErrAlternativeRoutingTimeout is the error of the failure we return when
// neither pinging the primary nor calling alternative routes succeeds in time.
var ErrAlternativeRoutingTimeout = errors.New("apimanager: alternative routing timed out")

// errNoAlternativeRoutes indicates we do not know any alternative route.
var errNoAlternativeRoutes = errors.New("apimanager: no alternative routes")

// Config contains configuration for [New].
//
// The zero value is invalid; initialize the MANDATORY fields.
type Config struct {
	// Alternatives is the OPTIONAL coordinator of alternative routes. When
	// nil, we never use alternative routing.
	Alternatives *altroute.Coordinator

	// Backoff is the OPTIONAL backoff policy used when the caller asks for
	// backoff. The zero value means no retries.
	Backoff backoff.Policy

	// DoHTimeout is the OPTIONAL deadline for racing alternative routes. When
	// zero or negative, we use [DefaultDoHTimeout].
	DoHTimeout time.Duration

	// Logger is the OPTIONAL logger to use.
	Logger model.Logger

	// Primary is the MANDATORY primary backend.
	Primary model.Backend

	// Settings is the MANDATORY alternative routing setting.
	Settings model.AlternativeRoutingSettings

	// Tunnel is the MANDATORY tunnel state.
	Tunnel model.TunnelState
}

// Manager calls the API. Use [Call] to perform calls.
//
// The zero value is invalid; please, construct using [New].
type Manager struct {
	alternatives *altroute.Coordinator
	backoff      backoff.Policy
	dohTimeout   time.Duration
	logger       model.Logger
	primary      model.Backend
	settings     model.AlternativeRoutingSettings
	tunnel       model.TunnelState
}

// New creates a new [*Manager] instance. This function panics if the
// config is missing MANDATORY fields or the backoff policy is invalid.
func New(config *Config) *Manager {
	runtimex.Assert(config.Primary != nil, "apimanager: Primary is nil")
	runtimex.Assert(config.Settings != nil, "apimanager: Settings is nil")
	runtimex.Assert(config.Tunnel != nil, "apimanager: Tunnel is nil")
	runtimex.PanicOnError(config.Backoff.Validate(), "apimanager: invalid Backoff")
	dohTimeout := config.DoHTimeout
	if dohTimeout <= 0 {
		dohTimeout = DefaultDoHTimeout
	}
	return &Manager{
		alternatives: config.Alternatives,
		backoff:      config.Backoff,
		dohTimeout:   dohTimeout,
		logger:       model.ValidLoggerOrDefault(config.Logger),
		primary:      config.Primary,
		settings:     config.Settings,
		tunnel:       config.Tunnel,
	}
}

// OnAlternativeRoutingChanged must be called when the user changes the
// alternative routing setting. Disabling alternative routing forgets the
// active alternative route.
func (m *Manager) OnAlternativeRoutingChanged(enabled bool) {
	if !enabled && m.alternatives != nil {
		m.logger.Info("apimanager: alternative routing disabled")
		m.alternatives.ResetActiveBackend()
	}
}

// ActiveRoute returns the base route of the alternative backend that last
// won a race, if it is still active, or an empty string.
func (m *Manager) ActiveRoute() string {
	if m.alternatives == nil {
		return ""
	}
	if backend := m.alternatives.ActiveBackend(); backend != nil {
		return backend.BaseRoute()
	}
	return ""
}

// fallbackAllowed returns whether we can use alternative routing.
func (m *Manager) fallbackAllowed() bool {
	if m.alternatives == nil {
		return false
	}
	if !m.settings.AlternativeRoutingAllowed() {
		m.alternatives.ResetActiveBackend()
		return false
	}
	return !m.tunnel.TunnelActive()
}

// scheduleRefresh refreshes the alternative routes in the background. The
// refresh joins the discovery started by the race, if it is still running.
func (m *Manager) scheduleRefresh() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.dohTimeout)
		defer cancel()
		if err := m.alternatives.RefreshDomains(ctx); err != nil {
			m.logger.Warnf("apimanager: background refresh: %s", err.Error())
		}
	}()
}
