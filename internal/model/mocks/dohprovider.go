package mocks

import (
	"context"

	"github.com/altroute/altroute/internal/model"
)

// DoHProvider allows mocking a [model.DoHProvider].
type DoHProvider struct {
	MockResolve func(ctx context.Context, domain string) ([]string, error)

	MockAddress func() string
}

var _ model.DoHProvider = &DoHProvider{}

// Resolve calls MockResolve.
func (p *DoHProvider) Resolve(ctx context.Context, domain string) ([]string, error) {
	return p.MockResolve(ctx, domain)
}

// Address calls MockAddress.
func (p *DoHProvider) Address() string {
	return p.MockAddress()
}
