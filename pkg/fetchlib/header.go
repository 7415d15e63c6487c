package fetchlib

import (
	"net/http"
	"strings"
)

const (
	USER_AGENT_KEY   = "User-Agent"
	REFERER_KEY      = "Referer"
	CONTENT_TYPE_KEY = "Content-Type"
)

// Headers represents an ordered list of request headers.
type Headers []Header

// ParseHeaders converts "Key: value" lines into Headers.
// Lines without a colon are skipped.
func ParseHeaders(lines ...string) Headers {
	h := make(Headers, 0, len(lines))
	for _, line := range lines {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		h = append(h, Header{Key: k, Value: strings.TrimSpace(v)})
	}
	return h
}

// Get returns the index of the header with the given key.
// Keys are compared case-insensitively.
// If the header is not found, the second return value is false.
func (h Headers) Get(key string) (index int, have bool) {
	for i, x := range h {
		if !strings.EqualFold(x.Key, key) {
			continue
		}
		index = i
		have = true
		break
	}
	return
}

// InitOrUpdate appends the header unless one with the same key is already present.
func (h *Headers) InitOrUpdate(key, value string) {
	_, ok := h.Get(key)
	if ok {
		return
	}
	*h = append(*h, Header{key, value})
}

// Update replaces the header with the given key or appends it.
func (h *Headers) Update(key, value string) {
	i, ok := h.Get(key)
	if ok {
		(*h)[i] = Header{key, value}
		return
	}
	*h = append(*h, Header{key, value})
}

// Clone returns a copy that shares no storage with h.
func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	return append(make(Headers, 0, len(h)), h...)
}

// Add adds the headers to the given http.Header, keeping repeated keys.
func (h Headers) Add(header http.Header) {
	for _, x := range h {
		x.Add(header)
	}
}

// Header represents a key-value pair.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// String renders the header as a "Key: value" line.
func (h Header) String() string {
	return h.Key + ": " + h.Value
}

// Add adds the header to the given http.Header.
func (h *Header) Add(header http.Header) {
	header.Add(h.Key, h.Value)
}
