package httpbackend

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/altroute/altroute/internal/model"
)

// ClassifyError maps an error returned by the HTTP client to a [model.FailureKind].
//
// Deadlines and network timeouts map to [model.FailureTimeout]. DNS lookup
// errors, failing to dial, and connections being refused, reset, or
// unreachable map to [model.FailureNoConnectivity]. Anything else, including
// a cancelled context, maps to [model.FailureOther].
func ClassifyError(err error) model.FailureKind {
	if err == nil {
		return model.FailureOther
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return model.FailureTimeout
	}
	if errors.Is(err, context.Canceled) {
		return model.FailureOther
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.FailureTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return model.FailureNoConnectivity
	}
	if classifySyscallError(err) {
		return model.FailureNoConnectivity
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return model.FailureNoConnectivity
	}
	return model.FailureOther
}

// classifySyscallError returns whether the error is a system call error
// meaning that we could not reach the server.
func classifySyscallError(err error) bool {
	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.ECONNABORTED,
		syscall.EHOSTUNREACH,
		syscall.ENETDOWN,
		syscall.ENETUNREACH,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
