package fetchlib

import (
	"context"
	"time"
)

// Completion is the outcome of one finished transfer.
type Completion struct {
	Handle *Handle
	// Result is ResultOK unless the transfer failed.
	Result ResultCode
	// Err carries the failure detail, if any.
	Err error
	// URL is the normalized URL the handle was built with. It is the
	// correlation key back to the originating task.
	URL string
	// EffectiveURL is the URL of the last request, after redirects.
	EffectiveURL string
	// StatusCode is the HTTP status of the last response, 0 if none.
	StatusCode int
	// SizeDownload is the number of body bytes received.
	SizeDownload int64
}

// OK reports whether the transfer succeeded.
func (c *Completion) OK() bool {
	return c.Result == ResultOK
}

// Transport performs transfers described by handles.
type Transport interface {
	// NewMulti opens a multiplexing context.
	NewMulti() (Multi, error)
	// Perform runs a single transfer to completion, blocking the caller.
	Perform(ctx context.Context, h *Handle) *Completion
	// Release frees the resources held by a completed handle.
	Release(h *Handle) error
}

// Multi lets many handles make progress from a single goroutine.
// It is used by one goroutine at a time.
type Multi interface {
	// Add submits a handle. The transfer may start immediately.
	Add(h *Handle) error
	// Remove withdraws a handle, aborting it if still in flight.
	Remove(h *Handle) error
	// Perform makes progress without blocking and reports how many
	// added handles have not finished yet.
	Perform() (running int, err error)
	// Wait blocks until at least one handle has news or timeout elapses,
	// returning the number of handles with news. Implementations that
	// cannot block return ErrWaitUnsupported.
	Wait(timeout time.Duration) (int, error)
	// InfoRead pops the next completed transfer.
	InfoRead() (*Completion, bool)
	// Close aborts remaining transfers and releases the context.
	Close() error
}
