package model

import "context"

// DoHProvider resolves a domain into a list of alternative base routes
// using a DNS-over-HTTPS service.
type DoHProvider interface {
	// Resolve returns the alternative base routes for the given domain.
	//
	// A non-nil error means that this provider failed to resolve and that
	// the caller should try with the next provider. A nil error with an
	// empty list is a valid answer meaning there are no alternatives.
	Resolve(ctx context.Context, domain string) ([]string, error)

	// Address returns the URL of the DoH service.
	Address() string
}
