// Package httpbackend implements [model.Backend] on top of a [model.HTTPClient].
//
// A [*Backend] only reports raw outcomes. Retrying, racing alternative
// routes, and deciding which route to use is the caller's business.
package httpbackend

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/altroute/altroute/internal/model"
	"github.com/altroute/altroute/internal/runtimex"
)

// DefaultCallTimeout is the default timeout for a call.
const DefaultCallTimeout = 30 * time.Second

// DefaultMaxBodySize is the default value for the maximum
// body size you can fetch using a [*Backend].
const DefaultMaxBodySize = 1 << 24

// PingTimeout is the timeout used by [*Backend.Ping].
const PingTimeout = 10 * time.Second

// PingURLPath is the URL path used by [*Backend.Ping].
const PingURLPath = "tests/ping"

// Config contains configuration for [New].
//
// The zero value is invalid; initialize the MANDATORY fields.
type Config struct {
	// BaseRoute is the MANDATORY base URL (e.g., "https://api.example.com/").
	BaseRoute string

	// Client is the MANDATORY [model.HTTPClient] to use.
	Client model.HTTPClient

	// Host is the OPTIONAL host header to use. If this field is empty we
	// use the BaseRoute's hostname. You need to set this field to contact
	// an alternative route while presenting the primary hostname.
	Host string

	// Logger is the OPTIONAL logger to use.
	Logger model.Logger

	// UserAgent is the OPTIONAL user agent to use.
	UserAgent string
}

// Backend is a [model.Backend] using HTTP.
//
// The zero value is invalid; please, construct using [New].
type Backend struct {
	baseRoute string
	client    model.HTTPClient
	host      string
	logger    model.Logger
	userAgent string
}

var _ model.Backend = &Backend{}

// New creates a new [*Backend] instance.
func New(config *Config) *Backend {
	runtimex.Assert(config.BaseRoute != "", "httpbackend: BaseRoute is empty")
	runtimex.Assert(config.Client != nil, "httpbackend: Client is nil")
	return &Backend{
		baseRoute: config.BaseRoute,
		client:    config.Client,
		host:      config.Host,
		logger:    model.ValidLoggerOrDefault(config.Logger),
		userAgent: config.UserAgent,
	}
}

// NewBackendFunc returns a [model.NewBackendFunc] creating backends that
// share the template's settings but use the given base route.
func NewBackendFunc(template *Config) model.NewBackendFunc {
	return func(baseRoute string) model.Backend {
		config := *template
		config.BaseRoute = baseRoute
		return New(&config)
	}
}

// BaseRoute implements model.Backend.
func (b *Backend) BaseRoute() string {
	return b.baseRoute
}

// Do implements model.Backend.
//
// An HTTP status code greater or equal than 400 becomes an error response
// carrying the response body. Network errors become failures classified
// using [ClassifyError].
func (b *Backend) Do(ctx context.Context, req *model.Request) model.Result[[]byte] {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	request, err := b.newRequest(ctx, req)
	if err != nil {
		return model.NewFailure[[]byte](err, model.FailureOther)
	}

	response, err := b.client.Do(request)
	if err != nil {
		return model.NewFailure[[]byte](err, ClassifyError(err))
	}
	defer response.Body.Close()

	// Implementation note: always read the body because the caller wants
	// to see the response JSON on API error.
	data, err := io.ReadAll(io.LimitReader(response.Body, DefaultMaxBodySize))
	if err != nil {
		return model.NewFailure[[]byte](err, ClassifyError(err))
	}
	b.logger.Debugf("httpbackend: %s %s: %d, %d bytes", req.Method, request.URL.Path, response.StatusCode, len(data))

	if response.StatusCode >= 400 {
		return model.NewErrorResponse[[]byte](response.StatusCode, string(data))
	}
	return model.NewSuccess(data)
}

// Ping implements model.Backend.
func (b *Backend) Ping(ctx context.Context) model.Result[struct{}] {
	result := b.Do(ctx, &model.Request{
		Method:  http.MethodGet,
		Timeout: PingTimeout,
		URLPath: PingURLPath,
	})
	if !result.IsSuccess() {
		return model.ConvertFailure[[]byte, struct{}](result)
	}
	return model.NewSuccess(struct{}{})
}
