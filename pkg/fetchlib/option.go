package fetchlib

import (
	"fmt"
	"time"
)

// Option identifies one supported transfer setting.
type Option int

const (
	optInvalid Option = iota
	// OptConnectTimeout bounds connection establishment (time.Duration).
	OptConnectTimeout
	// OptTimeout bounds the whole transfer (time.Duration).
	OptTimeout
	// OptHeader prepends the status line and response headers to the body (bool).
	OptHeader
	// OptFollowLocation follows redirects (bool).
	OptFollowLocation
	// OptMaxRedirs limits the number of redirects followed (int).
	OptMaxRedirs
	// OptAutoReferer sets the Referer header when following a redirect (bool).
	OptAutoReferer
	// OptCookieFile names a cookie store read before the transfer (string).
	// Netscape text files and Firefox or Chrome sqlite stores are understood.
	OptCookieFile
	// OptCookieJar names a file that received cookies are written to,
	// in Netscape format, when the handle is released (string).
	OptCookieJar
	// OptHTTPHeader sets request headers (Headers).
	OptHTTPHeader
	// OptUserAgent sets the User-Agent header (string).
	OptUserAgent
	// OptReferer sets the initial Referer header (string).
	OptReferer
	// OptProxy routes the transfer through an http, https or socks5 proxy (string).
	OptProxy
	// OptFailOnError turns HTTP responses with status >= 400 into failures (bool).
	OptFailOnError
	// OptCustomRequest overrides the request method (string).
	OptCustomRequest
	// OptNoBody issues a HEAD request (bool).
	OptNoBody
	optMax
)

var optionNames = [...]string{
	optInvalid:        "invalid",
	OptConnectTimeout: "connect-timeout",
	OptTimeout:        "timeout",
	OptHeader:         "header",
	OptFollowLocation: "follow-location",
	OptMaxRedirs:      "max-redirs",
	OptAutoReferer:    "auto-referer",
	OptCookieFile:     "cookie-file",
	OptCookieJar:      "cookie-jar",
	OptHTTPHeader:     "http-header",
	OptUserAgent:      "user-agent",
	OptReferer:        "referer",
	OptProxy:          "proxy",
	OptFailOnError:    "fail-on-error",
	OptCustomRequest:  "custom-request",
	OptNoBody:         "no-body",
}

func (o Option) String() string {
	if !o.Valid() {
		return fmt.Sprintf("option(%d)", int(o))
	}
	return optionNames[o]
}

// Valid reports whether o is one of the supported options.
func (o Option) Valid() bool {
	return o > optInvalid && o < optMax
}

// accepts reports whether v has the Go type expected for o.
func (o Option) accepts(v any) bool {
	switch o {
	case OptConnectTimeout, OptTimeout:
		_, ok := v.(time.Duration)
		return ok
	case OptHeader, OptFollowLocation, OptAutoReferer, OptFailOnError, OptNoBody:
		_, ok := v.(bool)
		return ok
	case OptMaxRedirs:
		_, ok := v.(int)
		return ok
	case OptCookieFile, OptCookieJar, OptUserAgent, OptReferer, OptProxy, OptCustomRequest:
		_, ok := v.(string)
		return ok
	case OptHTTPHeader:
		_, ok := v.(Headers)
		return ok
	}
	return false
}

// Options maps transfer options to their values.
//
// Use Set to get type checking; values stored directly with a wrong
// type are ignored when a handle is built.
type Options map[Option]any

// Default transfer settings.
const (
	DEF_CONNECT_TIMEOUT = 10 * time.Second
	DEF_TIMEOUT         = 30 * time.Second
	DEF_MAX_REDIRS      = 5
	DEF_USER_AGENT      = "Mozilla/5.0 (iPhone; CPU iPhone OS 9_1 like Mac OS X) AppleWebKit/601.1.46 (KHTML, like Gecko) Version/9.0 Mobile/13B143 Safari/601.1"
)

// DefaultOptions returns the settings every engine starts with.
func DefaultOptions() Options {
	return Options{
		OptConnectTimeout: DEF_CONNECT_TIMEOUT,
		OptTimeout:        DEF_TIMEOUT,
		OptHeader:         false,
		OptFollowLocation: true,
		OptMaxRedirs:      DEF_MAX_REDIRS,
		OptAutoReferer:    true,
		OptCookieFile:     "",
		OptCookieJar:      "",
		OptHTTPHeader: Headers{
			{Key: "accept-language", Value: "en-US,en;q=0.8"},
			{Key: "Cookie", Value: "locale=en_US"},
		},
		OptUserAgent: DEF_USER_AGENT,
	}
}

// Set stores v under key after checking both.
func (o Options) Set(key Option, v any) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedOption, key)
	}
	if !key.accepts(v) {
		return fmt.Errorf("%w: %s does not accept %T", ErrInvalidOptionValue, key, v)
	}
	o[key] = v
	return nil
}

// Clone returns a shallow copy; Headers values are copied too.
func (o Options) Clone() Options {
	c := make(Options, len(o))
	for k, v := range o {
		if h, ok := v.(Headers); ok {
			v = h.Clone()
		}
		c[k] = v
	}
	return c
}

func (o Options) getDuration(key Option) time.Duration {
	d, _ := o[key].(time.Duration)
	return d
}

func (o Options) getBool(key Option) bool {
	b, _ := o[key].(bool)
	return b
}

func (o Options) getInt(key Option) int {
	n, _ := o[key].(int)
	return n
}

func (o Options) getString(key Option) string {
	s, _ := o[key].(string)
	return s
}

func (o Options) getHeaders() Headers {
	h, _ := o[OptHTTPHeader].(Headers)
	return h
}
