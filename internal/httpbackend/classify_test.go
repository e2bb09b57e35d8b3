package httpbackend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"syscall"
	"testing"

	"github.com/altroute/altroute/internal/model"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want model.FailureKind
	}{{
		name: "nil error",
		err:  nil,
		want: model.FailureOther,
	}, {
		name: "wrapped deadline exceeded",
		err:  &url.Error{Op: "Get", URL: "https://api.example.com/", Err: context.DeadlineExceeded},
		want: model.FailureTimeout,
	}, {
		name: "context canceled",
		err:  fmt.Errorf("request: %w", context.Canceled),
		want: model.FailureOther,
	}, {
		name: "DNS lookup timeout",
		err:  &net.DNSError{Err: "i/o timeout", Name: "api.example.com", IsTimeout: true},
		want: model.FailureTimeout,
	}, {
		name: "DNS lookup failure",
		err:  &net.DNSError{Err: "no such host", Name: "api.example.com", IsNotFound: true},
		want: model.FailureNoConnectivity,
	}, {
		name: "connection refused",
		err:  &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)},
		want: model.FailureNoConnectivity,
	}, {
		name: "connection reset while reading",
		err:  &net.OpError{Op: "read", Net: "tcp", Err: os.NewSyscallError("read", syscall.ECONNRESET)},
		want: model.FailureNoConnectivity,
	}, {
		name: "generic dial error",
		err:  &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("mocked error")},
		want: model.FailureNoConnectivity,
	}, {
		name: "EOF",
		err:  io.EOF,
		want: model.FailureOther,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Fatal("expected", tt.want, "got", got)
			}
		})
	}
}
