package httpbackend

//
// JSON helpers
//

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/altroute/altroute/internal/model"
)

// applicationJSON is the content-type for JSON
const applicationJSON = "application/json"

// NewGETJSONRequest returns a [*model.Request] for GETting a JSON resource.
func NewGETJSONRequest(urlPath string, query url.Values) *model.Request {
	return &model.Request{
		Accept:   applicationJSON,
		Method:   http.MethodGet,
		URLPath:  urlPath,
		URLQuery: query,
	}
}

// NewPOSTJSONRequest returns a [*model.Request] for POSTing the given
// body serialized as JSON and reading back a JSON response.
func NewPOSTJSONRequest(urlPath string, body any) (*model.Request, error) {
	rawBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req := &model.Request{
		Accept:      applicationJSON,
		ContentType: applicationJSON,
		Method:      http.MethodPost,
		RequestBody: rawBody,
		URLPath:     urlPath,
	}
	return req, nil
}

// CallJSON executes the given request with the given backend and parses
// a successful response body as JSON. A body we cannot parse becomes a
// failure of kind [model.FailureOther], which is not transient.
func CallJSON[T any](ctx context.Context, backend model.Backend, req *model.Request) model.Result[T] {
	result := backend.Do(ctx, req)
	data, good := result.Value()
	if !good {
		return model.ConvertFailure[[]byte, T](result)
	}
	var output T
	if err := json.Unmarshal(data, &output); err != nil {
		return model.NewFailure[T](err, model.FailureOther)
	}
	return model.NewSuccess(output)
}

// NewCallJSONFunc returns a [model.CallFunc] invoking [CallJSON] with a
// request built for each backend by |newRequest|.
func NewCallJSONFunc[T any](newRequest func() *model.Request) model.CallFunc[T] {
	return func(ctx context.Context, backend model.Backend) model.Result[T] {
		return CallJSON[T](ctx, backend, newRequest())
	}
}
