package model

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResultIsTransient(t *testing.T) {
	tests := []struct {
		name   string
		result Result[string]
		want   bool
	}{{
		name:   "success",
		result: NewSuccess("antani"),
		want:   false,
	}, {
		name:   "client error response",
		result: NewErrorResponse[string](400, "bad request"),
		want:   false,
	}, {
		name:   "server error response",
		result: NewErrorResponse[string](503, ""),
		want:   false,
	}, {
		name:   "timeout failure",
		result: NewFailure[string](context.DeadlineExceeded, FailureTimeout),
		want:   true,
	}, {
		name:   "no connectivity failure",
		result: NewFailure[string](io.EOF, FailureNoConnectivity),
		want:   true,
	}, {
		name:   "other failure",
		result: NewFailure[string](io.EOF, FailureOther),
		want:   false,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.IsTransient(); got != tt.want {
				t.Fatal("expected", tt.want, "got", got)
			}
		})
	}
}

func TestResultMatch(t *testing.T) {
	// collect records which callback was invoked
	collect := func(r Result[int]) (out []string) {
		r.Match(
			func(value int) { out = append(out, "success") },
			func(httpCode int, body string) { out = append(out, "error_response") },
			func(err error, kind FailureKind) { out = append(out, "failure:"+kind.String()) },
		)
		return
	}

	t.Run("for a success", func(t *testing.T) {
		if diff := cmp.Diff([]string{"success"}, collect(NewSuccess(17))); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("for an error response", func(t *testing.T) {
		got := collect(NewErrorResponse[int](422, "{}"))
		if diff := cmp.Diff([]string{"error_response"}, got); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("for a failure", func(t *testing.T) {
		got := collect(NewFailure[int](io.EOF, FailureNoConnectivity))
		if diff := cmp.Diff([]string{"failure:no_connectivity"}, got); diff != "" {
			t.Fatal(diff)
		}
	})
}

func TestResultAccessors(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := NewSuccess("x")
		value, good := r.Value()
		if !good || value != "x" {
			t.Fatal("unexpected value", value, good)
		}
		if !r.IsSuccess() || r.IsErrorResponse() || r.IsFailure() {
			t.Fatal("unexpected variant")
		}
		if r.String() != "success" {
			t.Fatal("unexpected string", r.String())
		}
	})

	t.Run("error response", func(t *testing.T) {
		r := NewErrorResponse[string](404, "not found")
		if _, good := r.Value(); good {
			t.Fatal("expected no value")
		}
		if r.HTTPCode() != 404 || r.Body() != "not found" {
			t.Fatal("unexpected fields", r.HTTPCode(), r.Body())
		}
		if r.String() != "error_response(404)" {
			t.Fatal("unexpected string", r.String())
		}
	})

	t.Run("failure with nil error", func(t *testing.T) {
		r := NewFailure[string](nil, FailureTimeout)
		if !errors.Is(r.Err(), ErrUnknownFailure) {
			t.Fatal("unexpected error", r.Err())
		}
		if r.Kind() != FailureTimeout {
			t.Fatal("unexpected kind", r.Kind())
		}
	})
}

func TestConvertFailure(t *testing.T) {
	t.Run("preserves an error response", func(t *testing.T) {
		r := ConvertFailure[[]byte, int](NewErrorResponse[[]byte](500, "oops"))
		if !r.IsErrorResponse() || r.HTTPCode() != 500 || r.Body() != "oops" {
			t.Fatal("unexpected result", r)
		}
	})

	t.Run("preserves a failure", func(t *testing.T) {
		r := ConvertFailure[[]byte, int](NewFailure[[]byte](io.EOF, FailureNoConnectivity))
		if !r.IsTransient() || !errors.Is(r.Err(), io.EOF) {
			t.Fatal("unexpected result", r)
		}
	})

	t.Run("panics with a success", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected a panic")
			}
		}()
		ConvertFailure[[]byte, int](NewSuccess([]byte("x")))
	})
}
