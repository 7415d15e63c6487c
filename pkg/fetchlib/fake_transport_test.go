package fetchlib

import (
	"context"
	"errors"
	"sync"
	"time"
)

type fakeResponse struct {
	body string
	code ResultCode
}

// fakeTransport completes one transfer per Perform call, oldest first
// unless lifo is set, and records how many were in flight at once.
type fakeTransport struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	// stall is the number of Perform calls that make no progress before
	// each completion.
	stall int
	// noWait makes Multi.Wait return ErrWaitUnsupported.
	noWait bool
	// gate, when set, blocks every completion until it is closed.
	gate chan struct{}
	// started is closed when a multi context is opened.
	started chan struct{}
	// lifo completes the most recently added transfer first.
	lifo bool
	// refuseAdd, when set, is asked before every Add with the number of
	// the attempt, starting at 1. A non-nil result is returned by Add.
	refuseAdd func(attempt int) error
	addAttempts int

	added    []*Handle
	inFlight int
	peak     int
	released int
	waits    int
	closed   int
	performs int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{responses: make(map[string]fakeResponse)}
}

func (t *fakeTransport) respond(url string, r fakeResponse) {
	t.responses[url] = r
}

func (t *fakeTransport) complete(h *Handle) *Completion {
	c := &Completion{Handle: h, URL: h.URL(), EffectiveURL: h.URL()}
	if h.Err() != nil {
		c.Result, c.Err = ResultURLMalformat, h.Err()
		return c
	}
	r, ok := t.responses[h.URL()]
	if !ok {
		r = fakeResponse{body: "body of " + h.URL()}
	}
	if r.code != ResultOK {
		c.Result, c.Err = r.code, errors.New("fake failure")
		return c
	}
	c.StatusCode = 200
	c.SizeDownload = int64(len(r.body))
	h.SetContent([]byte(r.body))
	return c
}

func (t *fakeTransport) NewMulti() (Multi, error) {
	t.mu.Lock()
	if t.started != nil {
		close(t.started)
		t.started = nil
	}
	t.mu.Unlock()
	return &fakeMulti{t: t, pending: make(map[*Handle]bool)}, nil
}

func (t *fakeTransport) Perform(_ context.Context, h *Handle) *Completion {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.performs++
	return t.complete(h)
}

func (t *fakeTransport) Release(h *Handle) error {
	if h.Release() {
		t.mu.Lock()
		t.released++
		t.mu.Unlock()
	}
	return nil
}

func (t *fakeTransport) urls() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.added))
	for i, h := range t.added {
		out[i] = h.URL()
	}
	return out
}

type fakeMulti struct {
	t       *fakeTransport
	pending map[*Handle]bool
	order   []*Handle
	done    []*Completion
	ticks   int
	closed  bool
}

func (m *fakeMulti) Add(h *Handle) error {
	if m.closed {
		return ErrMultiClosed
	}
	if _, ok := m.pending[h]; ok {
		return ErrHandleInUse
	}
	m.t.mu.Lock()
	defer m.t.mu.Unlock()
	m.t.addAttempts++
	if m.t.refuseAdd != nil {
		if err := m.t.refuseAdd(m.t.addAttempts); err != nil {
			return err
		}
	}
	m.pending[h] = true
	m.order = append(m.order, h)
	m.t.added = append(m.t.added, h)
	m.t.inFlight++
	if m.t.inFlight > m.t.peak {
		m.t.peak = m.t.inFlight
	}
	return nil
}

func (m *fakeMulti) Remove(h *Handle) error {
	if _, ok := m.pending[h]; !ok {
		return ErrUnknownHandle
	}
	delete(m.pending, h)
	m.t.mu.Lock()
	m.t.inFlight--
	m.t.mu.Unlock()
	return nil
}

func (m *fakeMulti) Perform() (int, error) {
	m.t.mu.Lock()
	defer m.t.mu.Unlock()
	m.t.performs++
	if m.t.gate != nil {
		select {
		case <-m.t.gate:
		default:
			return len(m.order), nil
		}
	}
	m.ticks++
	if len(m.order) > 0 && m.ticks > m.t.stall {
		m.ticks = 0
		var h *Handle
		if m.t.lifo {
			h = m.order[len(m.order)-1]
			m.order = m.order[:len(m.order)-1]
		} else {
			h = m.order[0]
			m.order = m.order[1:]
		}
		m.done = append(m.done, m.t.complete(h))
	}
	return len(m.order), nil
}

func (m *fakeMulti) Wait(timeout time.Duration) (int, error) {
	m.t.mu.Lock()
	m.t.waits++
	noWait, gate := m.t.noWait, m.t.gate
	m.t.mu.Unlock()
	if noWait {
		return 0, ErrWaitUnsupported
	}
	if gate != nil {
		select {
		case <-gate:
		case <-time.After(timeout):
		}
	}
	return len(m.done), nil
}

func (m *fakeMulti) InfoRead() (*Completion, bool) {
	if len(m.done) == 0 {
		return nil, false
	}
	c := m.done[0]
	m.done = m.done[1:]
	return c, true
}

func (m *fakeMulti) Close() error {
	m.closed = true
	m.t.mu.Lock()
	m.t.closed++
	m.t.mu.Unlock()
	return nil
}
