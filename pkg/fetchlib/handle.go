package fetchlib

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"
)

const DEF_POST_CONTENT_TYPE = "application/x-www-form-urlencoded"

// Handle is one configured transfer, ready to be handed to a Transport.
// It is created by BuildHandle and performs no I/O itself.
type Handle struct {
	url      string
	identity Identity
	method   string
	opts     Options
	body     []byte
	req      *http.Request
	err      error

	mu       sync.Mutex
	content  []byte
	released bool
}

// BuildHandle normalizes rawURL and prepares a request using opts.
//
// A non-empty body turns the request into a POST carrying that body;
// otherwise OptNoBody selects HEAD, OptCustomRequest any other method,
// and GET is used by default. A URL that cannot be turned into a request
// still yields a handle; the transport reports it as a failed transfer.
func BuildHandle(rawURL string, opts Options, body []byte) *Handle {
	if opts == nil {
		opts = Options{}
	}
	u := NormalizeURL(rawURL)
	h := &Handle{
		url:      u,
		identity: identityOf(u),
		method:   methodFor(opts, body),
		opts:     opts,
		body:     body,
	}

	var rdr io.Reader
	if len(body) > 0 {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequest(h.method, u, rdr)
	if err != nil {
		h.err = err
		return h
	}
	headers := opts.getHeaders().Clone()
	if len(body) > 0 {
		headers.InitOrUpdate(CONTENT_TYPE_KEY, DEF_POST_CONTENT_TYPE)
	}
	headers.Add(req.Header)
	if ua := opts.getString(OptUserAgent); ua != "" {
		req.Header.Set(USER_AGENT_KEY, ua)
	}
	if ref := opts.getString(OptReferer); ref != "" {
		req.Header.Set(REFERER_KEY, ref)
	}
	h.req = req
	return h
}

func methodFor(opts Options, body []byte) string {
	switch {
	case len(body) > 0:
		return http.MethodPost
	case opts.getBool(OptNoBody):
		return http.MethodHead
	case opts.getString(OptCustomRequest) != "":
		return strings.ToUpper(opts.getString(OptCustomRequest))
	default:
		return http.MethodGet
	}
}

// URL returns the normalized URL the handle targets.
func (h *Handle) URL() string { return h.url }

// Identity returns the identity of the handle's URL.
func (h *Handle) Identity() Identity { return h.identity }

// Method returns the request method.
func (h *Handle) Method() string { return h.method }

// Options returns the option set the handle was built with.
func (h *Handle) Options() Options { return h.opts }

// Request returns the prepared request, or nil if building it failed.
func (h *Handle) Request() *http.Request { return h.req }

// Err returns the error that prevented the request from being built.
func (h *Handle) Err() error { return h.err }

// SetContent stores the response body. It is called by Transport
// implementations once the transfer completes.
func (h *Handle) SetContent(b []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return
	}
	h.content = b
}

// Content returns the response body of a completed transfer.
func (h *Handle) Content() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.content
}

// Released reports whether the handle's resources were released.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Release drops the body buffers. Transport implementations call it from
// Transport.Release. The second call is a no-op and returns false.
func (h *Handle) Release() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return false
	}
	h.released = true
	h.content = nil
	h.body = nil
	return true
}
