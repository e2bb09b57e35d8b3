package altroute

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/altroute/altroute/internal/kvstore"
	"github.com/altroute/altroute/internal/model"
)

// newTestCoordinatorWithRoutes returns a coordinator knowing the given routes.
func newTestCoordinatorWithRoutes(t *testing.T, routes ...string) *Coordinator {
	c := NewCoordinator(newTestConfig(kvstore.NewMemory(), newTestProvider("https://first/", routes, nil)))
	if err := c.RefreshDomains(context.Background()); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCallWithAlternatives(t *testing.T) {
	t.Run("without routes", func(t *testing.T) {
		c := NewCoordinator(newTestConfig(kvstore.NewMemory()))
		var called bool
		_, ok := CallWithAlternatives(context.Background(), c, func(ctx context.Context, backend model.Backend) model.Result[string] {
			called = true
			return model.NewSuccess("x")
		})
		if ok {
			t.Fatal("expected alternative routing to be unavailable")
		}
		if called {
			t.Fatal("did not expect the function to be called")
		}
	})

	t.Run("the first success wins and cancels the others", func(t *testing.T) {
		c := newTestCoordinatorWithRoutes(t, "https://slow.example.net/", "https://fast.example.net/")
		slowDone := make(chan struct{})
		result, ok := CallWithAlternatives(context.Background(), c, func(ctx context.Context, backend model.Backend) model.Result[string] {
			if backend.BaseRoute() == "https://fast.example.net/" {
				time.Sleep(10 * time.Millisecond)
				return model.NewSuccess(backend.BaseRoute())
			}
			defer close(slowDone)
			<-ctx.Done()
			return model.NewFailure[string](ctx.Err(), model.FailureTimeout)
		})
		if !ok {
			t.Fatal("expected alternative routing to be available")
		}
		value, good := result.Value()
		if !good || value != "https://fast.example.net/" {
			t.Fatal("unexpected result", result)
		}
		select {
		case <-slowDone:
		case <-time.After(5 * time.Second):
			t.Fatal("the slow call was not cancelled")
		}
		active := c.ActiveBackend()
		if active == nil || active.BaseRoute() != "https://fast.example.net/" {
			t.Fatal("unexpected active backend", active)
		}
	})

	t.Run("an error response does not win", func(t *testing.T) {
		c := newTestCoordinatorWithRoutes(t, "https://a.example.net/", "https://b.example.net/")
		result, _ := CallWithAlternatives(context.Background(), c, func(ctx context.Context, backend model.Backend) model.Result[string] {
			if backend.BaseRoute() == "https://a.example.net/" {
				return model.NewErrorResponse[string](500, "")
			}
			time.Sleep(50 * time.Millisecond)
			return model.NewSuccess("b")
		})
		if value, good := result.Value(); !good || value != "b" {
			t.Fatal("unexpected result", result)
		}
	})

	t.Run("when all fail we return the first completed failure", func(t *testing.T) {
		c := newTestCoordinatorWithRoutes(t, "https://a.example.net/", "https://b.example.net/")
		result, ok := CallWithAlternatives(context.Background(), c, func(ctx context.Context, backend model.Backend) model.Result[string] {
			if backend.BaseRoute() == "https://a.example.net/" {
				time.Sleep(100 * time.Millisecond)
				return model.NewFailure[string](io.EOF, model.FailureOther)
			}
			return model.NewFailure[string](context.DeadlineExceeded, model.FailureTimeout)
		})
		if !ok {
			t.Fatal("expected alternative routing to be available")
		}
		if !errors.Is(result.Err(), context.DeadlineExceeded) {
			t.Fatal("unexpected result", result)
		}
		if c.ActiveBackend() != nil {
			t.Fatal("expected no active backend")
		}
	})

	t.Run("a success after cancellation does not become active", func(t *testing.T) {
		c := newTestCoordinatorWithRoutes(t, "https://a.example.net/")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result, ok := CallWithAlternatives(ctx, c, func(ctx context.Context, backend model.Backend) model.Result[string] {
			return model.NewSuccess("a")
		})
		if !ok || !result.IsSuccess() {
			t.Fatal("unexpected result", result)
		}
		if c.ActiveBackend() != nil {
			t.Fatal("expected no active backend")
		}
	})
}

func TestActiveBackend(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	config := newTestConfig(kvstore.NewMemory(), newTestProvider("https://first/", []string{"https://a.example.net/"}, nil))
	config.ActivePeriod = time.Hour
	config.TimeNow = func() time.Time { return now }
	c := NewCoordinator(config)
	if err := c.RefreshDomains(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.ActiveBackend() != nil {
		t.Fatal("expected no active backend before any race")
	}

	CallWithAlternatives(context.Background(), c, func(ctx context.Context, backend model.Backend) model.Result[int] {
		return model.NewSuccess(1)
	})

	now = now.Add(59 * time.Minute)
	if c.ActiveBackend() == nil {
		t.Fatal("expected an active backend within the active period")
	}

	now = now.Add(2 * time.Minute)
	if c.ActiveBackend() != nil {
		t.Fatal("expected the active backend to expire")
	}

	CallWithAlternatives(context.Background(), c, func(ctx context.Context, backend model.Backend) model.Result[int] {
		return model.NewSuccess(1)
	})
	c.ResetActiveBackend()
	if c.ActiveBackend() != nil {
		t.Fatal("expected no active backend after reset")
	}
}
