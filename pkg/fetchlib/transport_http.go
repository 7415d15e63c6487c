package fetchlib

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/warpdl/warpfetch/pkg/logger"
)

// HTTPTransportOpts configures an HTTPTransport.
type HTTPTransportOpts struct {
	// Logger receives cookie store problems. Defaults to a NopLogger.
	Logger logger.Logger
}

// HTTPTransport is the net/http backed Transport. Transfers with equal
// connect timeout and proxy settings share a connection pool.
type HTTPTransport struct {
	l       logger.Logger
	clients *clientPool
	// jars holds the cookie jar of every handle that has one until
	// the handle is released.
	jars sync.Map
}

// NewHTTPTransport creates a transport. opts may be nil.
func NewHTTPTransport(opts *HTTPTransportOpts) *HTTPTransport {
	if opts == nil {
		opts = &HTTPTransportOpts{}
	}
	l := opts.Logger
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &HTTPTransport{l: l, clients: newClientPool()}
}

func (t *HTTPTransport) NewMulti() (Multi, error) {
	return &httpMulti{
		t:         t,
		notify:    make(chan struct{}, 1),
		transfers: make(map[*Handle]*transfer),
	}, nil
}

func (t *HTTPTransport) Perform(ctx context.Context, h *Handle) *Completion {
	return t.exec(ctx, h)
}

// Release drops the handle's buffers and writes its cookie jar to
// OptCookieJar, if set. Releasing twice is a no-op.
func (t *HTTPTransport) Release(h *Handle) error {
	if !h.Release() {
		return nil
	}
	v, ok := t.jars.LoadAndDelete(h)
	if !ok {
		return nil
	}
	path := h.Options().getString(OptCookieJar)
	if path == "" {
		return nil
	}
	if err := v.(*trackingJar).save(path); err != nil {
		return fmt.Errorf("save cookie jar: %w", err)
	}
	return nil
}

// exec runs one transfer on the calling goroutine.
func (t *HTTPTransport) exec(ctx context.Context, h *Handle) *Completion {
	c := &Completion{Handle: h, URL: h.URL()}
	if h.Err() != nil {
		c.Result, c.Err = ResultURLMalformat, h.Err()
		return c
	}
	if err := ctx.Err(); err != nil {
		c.Result, c.Err = ClassifyError(err), err
		return c
	}

	var cj http.CookieJar
	jar, err := newCookieJar(h.Options())
	if err != nil {
		t.l.Warning("%s: cookie file %s: %v", h.URL(), h.Options().getString(OptCookieFile), err)
	}
	if jar != nil {
		t.jars.Store(h, jar)
		cj = jar
	}
	client, err := t.clients.client(h.Options(), cj)
	if err != nil {
		c.Result, c.Err = ClassifyError(err), err
		return c
	}

	resp, err := client.Do(h.Request().Clone(ctx))
	if err != nil {
		c.Result, c.Err = ClassifyError(err), err
		return c
	}
	defer resp.Body.Close()

	c.StatusCode = resp.StatusCode
	c.EffectiveURL = resp.Request.URL.String()
	if resp.StatusCode >= 400 && h.Options().getBool(OptFailOnError) {
		c.Result = ResultHTTPReturnedError
		c.Err = fmt.Errorf("the requested URL returned error: %s", resp.Status)
		return c
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Result, c.Err = ClassifyError(err), err
		if c.Result == ResultOK {
			c.Result = ResultRecvError
		}
		return c
	}
	c.SizeDownload = int64(len(body))
	if h.Options().getBool(OptHeader) {
		body = append(responseHead(resp), body...)
	}
	h.SetContent(body)
	return c
}

// responseHead renders the status line and headers of resp.
func responseHead(resp *http.Response) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s\r\n", resp.Proto, resp.Status)
	resp.Header.Write(&buf)
	buf.WriteString("\r\n")
	return buf.Bytes()
}

type transfer struct {
	cancel   context.CancelFunc
	finished bool
}

// httpMulti runs every added handle on its own goroutine. Finished
// transfers are queued in done and announced on notify.
type httpMulti struct {
	t      *HTTPTransport
	notify chan struct{}
	wg     sync.WaitGroup

	mu        sync.Mutex
	closed    bool
	transfers map[*Handle]*transfer
	done      []*Completion
}

func (m *httpMulti) Add(h *Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrMultiClosed
	}
	if _, ok := m.transfers[h]; ok {
		return ErrHandleInUse
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.transfers[h] = &transfer{cancel: cancel}
	m.wg.Add(1)
	go m.run(ctx, h)
	return nil
}

func (m *httpMulti) run(ctx context.Context, h *Handle) {
	defer m.wg.Done()
	c := m.t.exec(ctx, h)

	m.mu.Lock()
	tr, ok := m.transfers[h]
	if ok {
		tr.finished = true
		m.done = append(m.done, c)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *httpMulti) Remove(h *Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tr, ok := m.transfers[h]
	if !ok {
		return ErrUnknownHandle
	}
	delete(m.transfers, h)
	tr.cancel()
	for i, c := range m.done {
		if c.Handle == h {
			m.done = append(m.done[:i], m.done[i+1:]...)
			break
		}
	}
	return nil
}

func (m *httpMulti) Perform() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrMultiClosed
	}
	running := 0
	for _, tr := range m.transfers {
		if !tr.finished {
			running++
		}
	}
	return running, nil
}

func (m *httpMulti) Wait(timeout time.Duration) (int, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return 0, ErrMultiClosed
	}
	n := len(m.done)
	m.mu.Unlock()
	if n > 0 {
		return n, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-m.notify:
	case <-timer.C:
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.done), nil
}

func (m *httpMulti) InfoRead() (*Completion, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.done) == 0 {
		return nil, false
	}
	c := m.done[0]
	m.done[0] = nil
	m.done = m.done[1:]
	return c, true
}

// Close aborts transfers still in flight, waits for their goroutines,
// releases their handles and drops idle keep-alive connections.
func (m *httpMulti) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	orphans := make([]*Handle, 0, len(m.transfers))
	for h, tr := range m.transfers {
		tr.cancel()
		orphans = append(orphans, h)
	}
	m.transfers = nil
	m.done = nil
	m.mu.Unlock()

	m.wg.Wait()
	m.t.clients.closeIdle()
	var firstErr error
	for _, h := range orphans {
		if err := m.t.Release(h); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
