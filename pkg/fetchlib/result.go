package fetchlib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
)

// ResultCode is the outcome of one transfer.
type ResultCode int

const (
	// ResultOK means the exchange completed, whatever the HTTP status,
	// unless OptFailOnError is set.
	ResultOK ResultCode = iota
	ResultUnsupportedProtocol
	ResultURLMalformat
	ResultCouldntResolveProxy
	ResultCouldntResolveHost
	ResultCouldntConnect
	ResultOperationTimedOut
	ResultTooManyRedirects
	ResultSendError
	ResultRecvError
	ResultHTTPReturnedError
	ResultAborted
	ResultFailed
)

var resultNames = [...]string{
	ResultOK:                  "ok",
	ResultUnsupportedProtocol: "unsupported protocol",
	ResultURLMalformat:        "url malformed",
	ResultCouldntResolveProxy: "could not resolve proxy",
	ResultCouldntResolveHost:  "could not resolve host",
	ResultCouldntConnect:      "could not connect",
	ResultOperationTimedOut:   "operation timed out",
	ResultTooManyRedirects:    "too many redirects",
	ResultSendError:           "send error",
	ResultRecvError:           "receive error",
	ResultHTTPReturnedError:   "http returned error",
	ResultAborted:             "aborted",
	ResultFailed:              "failed",
}

func (c ResultCode) String() string {
	if c < 0 || int(c) >= len(resultNames) {
		return fmt.Sprintf("result(%d)", int(c))
	}
	return resultNames[c]
}

// ClassifyError maps an error returned by net/http into a ResultCode.
func ClassifyError(err error) ResultCode {
	if err == nil {
		return ResultOK
	}

	if errors.Is(err, ErrTooManyRedirects) {
		return ResultTooManyRedirects
	}
	if errors.Is(err, ErrCrossProtocolRedirect) || errors.Is(err, ErrUnsupportedScheme) {
		return ResultUnsupportedProtocol
	}
	if errors.Is(err, ErrInvalidProxyURL) {
		return ResultCouldntResolveProxy
	}
	if errors.Is(err, context.Canceled) {
		return ResultAborted
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ResultOperationTimedOut
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ResultCouldntResolveHost
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ResultOperationTimedOut
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch opErr.Op {
		case "dial":
			return ResultCouldntConnect
		case "write":
			return ResultSendError
		case "read":
			return ResultRecvError
		}
	}

	var sysErr syscall.Errno
	if errors.As(err, &sysErr) {
		switch sysErr {
		case syscall.ECONNREFUSED, syscall.EHOSTUNREACH, syscall.ENETUNREACH:
			return ResultCouldntConnect
		case syscall.EPIPE:
			return ResultSendError
		case syscall.ECONNRESET:
			return ResultRecvError
		}
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ResultRecvError
	}

	// Wrapped errors that lost their type.
	errStr := strings.ToLower(err.Error())
	patterns := []struct {
		substr string
		code   ResultCode
	}{
		{"unsupported protocol scheme", ResultUnsupportedProtocol},
		{"no host in request url", ResultURLMalformat},
		{"no such host", ResultCouldntResolveHost},
		{"connection refused", ResultCouldntConnect},
		{"network is unreachable", ResultCouldntConnect},
		{"timeout", ResultOperationTimedOut},
		{"connection reset", ResultRecvError},
		{"broken pipe", ResultSendError},
	}
	for _, p := range patterns {
		if strings.Contains(errStr, p.substr) {
			return p.code
		}
	}
	return ResultFailed
}
