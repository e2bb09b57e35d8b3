package mocks

import (
	"context"

	"github.com/altroute/altroute/internal/model"
)

// Backend allows mocking a [model.Backend].
type Backend struct {
	MockBaseRoute func() string

	MockDo func(ctx context.Context, req *model.Request) model.Result[[]byte]

	MockPing func(ctx context.Context) model.Result[struct{}]
}

var _ model.Backend = &Backend{}

// BaseRoute calls MockBaseRoute.
func (b *Backend) BaseRoute() string {
	return b.MockBaseRoute()
}

// Do calls MockDo.
func (b *Backend) Do(ctx context.Context, req *model.Request) model.Result[[]byte] {
	return b.MockDo(ctx, req)
}

// Ping calls MockPing.
func (b *Backend) Ping(ctx context.Context) model.Result[struct{}] {
	return b.MockPing(ctx)
}
