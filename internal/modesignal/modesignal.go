// Package modesignal contains boolean flags describing the mode in which
// the application runs (e.g., whether a tunnel is active) and notifying
// subscribers when they change.
package modesignal

import (
	"sync"
	"sync/atomic"

	"github.com/altroute/altroute/internal/model"
)

// Flag is a boolean flag safe for concurrent use. The zero value is
// a valid flag set to false.
type Flag struct {
	mu          sync.Mutex
	subscribers []func(value bool)
	value       atomic.Bool
}

// NewFlag creates a new [*Flag] with the given initial value.
func NewFlag(value bool) *Flag {
	f := &Flag{}
	f.value.Store(value)
	return f
}

// Get returns the flag value.
func (f *Flag) Get() bool {
	return f.value.Load()
}

// Set sets the flag value and, when the value changes, synchronously
// invokes the subscribers in the order in which they subscribed.
func (f *Flag) Set(value bool) {
	f.mu.Lock()
	changed := f.value.Swap(value) != value
	subscribers := append([]func(bool){}, f.subscribers...)
	f.mu.Unlock()
	if !changed {
		return
	}
	for _, fx := range subscribers {
		fx(value)
	}
}

// Subscribe registers a function called each time the value changes.
func (f *Flag) Subscribe(fx func(value bool)) {
	f.mu.Lock()
	f.subscribers = append(f.subscribers, fx)
	f.mu.Unlock()
}

// AlternativeRouting adapts a [*Flag] to [model.AlternativeRoutingSettings].
type AlternativeRouting struct {
	*Flag
}

var _ model.AlternativeRoutingSettings = AlternativeRouting{}

// AlternativeRoutingAllowed implements model.AlternativeRoutingSettings.
func (ar AlternativeRouting) AlternativeRoutingAllowed() bool {
	return ar.Get()
}

// Tunnel adapts a [*Flag] to [model.TunnelState].
type Tunnel struct {
	*Flag
}

var _ model.TunnelState = Tunnel{}

// TunnelActive implements model.TunnelState.
func (tu Tunnel) TunnelActive() bool {
	return tu.Get()
}
