package model

//
// Backend
//

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Request describes a call to an API (e.g., GET /vpn/logicals).
//
// The zero value of this struct is invalid. Please, fill all the
// fields marked as MANDATORY for correct initialization.
type Request struct {
	// Accept contains the OPTIONAL accept header.
	Accept string

	// Authorization is the OPTIONAL authorization.
	Authorization string

	// ContentType is the OPTIONAL content-type header.
	ContentType string

	// Header contains OPTIONAL extra headers.
	Header http.Header

	// Method is the MANDATORY request method.
	Method string

	// RequestBody is the OPTIONAL request body.
	RequestBody []byte

	// Timeout is the OPTIONAL timeout for this call. The backend
	// implementation chooses a default when this field is zero.
	Timeout time.Duration

	// URLPath is the MANDATORY URL path relative to the base route.
	URLPath string

	// URLQuery is the OPTIONAL query.
	URLQuery url.Values
}

// Backend executes requests against a single base route.
//
// Implementations only report raw outcomes: deciding whether to retry or
// whether to use alternative routes is the caller's job.
type Backend interface {
	// BaseRoute returns the base URL of this backend.
	BaseRoute() string

	// Do executes the given request and returns the raw response body.
	Do(ctx context.Context, req *Request) Result[[]byte]

	// Ping is a cheap request telling whether the base route is reachable.
	Ping(ctx context.Context) Result[struct{}]
}

// CallFunc is a typed API operation executed against a given [Backend]. The
// same CallFunc is replayed against the primary backend and, when needed,
// against each alternative backend.
type CallFunc[T any] func(ctx context.Context, backend Backend) Result[T]

// NewBackendFunc constructs a [Backend] for the given base route.
type NewBackendFunc func(baseRoute string) Backend
