package fetchlib

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/warpdl/warpfetch/pkg/logger"
)

const (
	// DEF_CONCURRENCY is the concurrency limit of a new engine.
	DEF_CONCURRENCY = 5
	// DEF_WAIT_TIMEOUT bounds a single readiness wait on the transport.
	DEF_WAIT_TIMEOUT = time.Second
	// DEF_POLL_INTERVAL is slept when the transport cannot wait for readiness.
	DEF_POLL_INTERVAL = 100 * time.Microsecond
)

// EngineOpts configures an Engine. The zero value is usable.
type EngineOpts struct {
	// Concurrency is the initial concurrency limit.
	Concurrency int
	// Transport performs the transfers. Defaults to an HTTPTransport.
	Transport Transport
	// Logger defaults to a NopLogger.
	Logger logger.Logger
	// DefaultOptions replaces the built-in DefaultOptions when non-nil.
	DefaultOptions Options
	// WaitTimeout bounds each readiness wait.
	WaitTimeout time.Duration
	// PollInterval is slept instead when the transport cannot wait.
	PollInterval time.Duration
	// RecoverCallbacks recovers panicking callbacks instead of letting
	// them unwind Run. A recovered panic is logged and counted in
	// Stats.CallbackFaults; the transfer still counts as succeeded.
	RecoverCallbacks bool
}

func (o *EngineOpts) withDefaults() *EngineOpts {
	out := &EngineOpts{}
	if o != nil {
		*out = *o
	}
	if out.Concurrency == 0 {
		out.Concurrency = DEF_CONCURRENCY
	}
	if out.Logger == nil {
		out.Logger = logger.NewNopLogger()
	}
	if out.Transport == nil {
		out.Transport = NewHTTPTransport(&HTTPTransportOpts{Logger: out.Logger})
	}
	if out.DefaultOptions == nil {
		out.DefaultOptions = DefaultOptions()
	} else {
		out.DefaultOptions = out.DefaultOptions.Clone()
	}
	if out.WaitTimeout <= 0 {
		out.WaitTimeout = DEF_WAIT_TIMEOUT
	}
	if out.PollInterval <= 0 {
		out.PollInterval = DEF_POLL_INTERVAL
	}
	return out
}

// Engine admits URLs and fetches them with bounded concurrency.
// Its methods are safe for concurrent use.
type Engine struct {
	transport    Transport
	l            logger.Logger
	waitTimeout  time.Duration
	pollInterval time.Duration
	recoverCb    bool

	limit atomic.Int64

	mu       sync.Mutex
	running  bool
	defaults Options
	registry *registry
	queue    *taskQueue
	stats    statsCollector
}

// NewEngine creates an idle engine. opts may be nil.
func NewEngine(opts *EngineOpts) *Engine {
	opts = opts.withDefaults()
	e := &Engine{
		transport:    opts.Transport,
		l:            opts.Logger,
		waitTimeout:  opts.WaitTimeout,
		pollInterval: opts.PollInterval,
		recoverCb:    opts.RecoverCallbacks,
		defaults:     opts.DefaultOptions,
		registry:     newRegistry(),
		queue:        newTaskQueue(),
	}
	e.limit.Store(int64(opts.Concurrency))
	return e
}

// SetConcurrencyLimit sets the maximum number of transfers in flight.
// It may be called at any time, including from a callback; a running
// scheduler picks the new value up on its next refill. Values below 1
// behave as 1.
func (e *Engine) SetConcurrencyLimit(n int) {
	e.limit.Store(int64(n))
}

// ConcurrencyLimit returns the limit last set.
func (e *Engine) ConcurrencyLimit() int {
	return int(e.limit.Load())
}

// effectiveLimit is the limit the scheduler obeys.
func (e *Engine) effectiveLimit() int {
	n := int(e.limit.Load())
	if n < 1 {
		return 1
	}
	return n
}

// SetDefaultOptions merges opts into the engine defaults key by key.
// Unknown keys and values of the wrong type are logged and ignored.
// Tasks already queued see the new defaults when they start.
func (e *Engine) SetDefaultOptions(opts Options) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k, v := range opts {
		if !k.Valid() {
			e.l.Warning("ignoring unsupported option %s", k)
			continue
		}
		if !k.accepts(v) {
			e.l.Warning("ignoring option %s: unexpected value type %T", k, v)
			continue
		}
		if h, ok := v.(Headers); ok {
			v = h.Clone()
		}
		e.defaults[k] = v
	}
}

// DefaultOptions returns a copy of the engine defaults.
func (e *Engine) DefaultOptions() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.defaults.Clone()
}

// Submit registers urls, all sharing overrides and cb.
//
// A URL whose identity is already registered is not fetched again; it
// is counted as succeeded right away and cb is not called for it.
// Non-empty overrides replace the engine defaults for these tasks.
func (e *Engine) Submit(urls []string, overrides Options, cb Callback) {
	var opts Options
	if len(overrides) > 0 {
		opts = overrides.Clone()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.total += uint64(len(urls))
	for _, raw := range urls {
		u := NormalizeURL(raw)
		id := identityOf(u)
		if !e.registry.register(id, cb) {
			// Duplicates count as successes without any transfer.
			e.stats.succeeded++
			continue
		}
		e.queue.push(&task{id: id, url: u, opts: opts})
	}
}

// SubmitURL is Submit for a single URL.
func (e *Engine) SubmitURL(url string, overrides Options, cb Callback) {
	e.Submit([]string{url}, overrides, cb)
}

// Snapshot returns the current counters.
func (e *Engine) Snapshot() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats.snapshot(e.registry.len())
}

// Pending returns the number of queued tasks not yet started.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.len()
}

// DropQueued discards every queued task and forgets its identity, so the
// URL can be submitted again. It returns the dropped URLs, oldest first.
// It fails with ErrEngineBusy while Run is in progress.
func (e *Engine) DropQueued() ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return nil, ErrEngineBusy
	}
	dropped := e.queue.drain()
	urls := make([]string, 0, len(dropped))
	for _, t := range dropped {
		e.registry.remove(t.id)
		urls = append(urls, t.url)
	}
	return urls, nil
}

// requeue returns a task that could not be started to the head of the queue.
func (e *Engine) requeue(t *task) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue.pushFront(t)
}

// begin marks the engine as running. It reports false if a run is
// already in progress.
func (e *Engine) begin() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return false
	}
	e.running = true
	return true
}

func (e *Engine) end() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
}

// next pops the oldest task and resolves the options it starts with.
func (e *Engine) next() (*task, Options, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.queue.pop()
	if !ok {
		return nil, nil, false
	}
	if len(t.opts) > 0 {
		return t, t.opts, true
	}
	return t, e.defaults.Clone(), true
}
