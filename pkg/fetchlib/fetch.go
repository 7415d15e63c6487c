package fetchlib

import "context"

// Fetch performs a single transfer synchronously and returns the body.
// It bypasses the queue and the concurrency limit and leaves the engine
// counters untouched. A non-empty body makes the request a POST. When
// opts is empty the engine defaults are used.
//
// A failed transfer is reported as a *TransferError.
func (e *Engine) Fetch(ctx context.Context, url string, body []byte, opts Options) ([]byte, error) {
	if len(opts) == 0 {
		opts = e.DefaultOptions()
	} else {
		opts = opts.Clone()
	}
	h := BuildHandle(url, opts, body)
	defer func() {
		if err := e.transport.Release(h); err != nil {
			e.l.Warning("%s: release: %v", h.URL(), err)
		}
	}()

	c := e.transport.Perform(ctx, h)
	if !c.OK() {
		return nil, &TransferError{URL: c.URL, Code: c.Result, Err: c.Err}
	}
	return h.Content(), nil
}
