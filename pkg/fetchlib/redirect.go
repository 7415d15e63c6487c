package fetchlib

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

var (
	// ErrTooManyRedirects is returned when a redirect chain exceeds OptMaxRedirs.
	ErrTooManyRedirects = errors.New("maximum redirects followed")

	// ErrCrossProtocolRedirect is returned when a redirect leaves HTTP/HTTPS.
	ErrCrossProtocolRedirect = errors.New("cross-protocol redirect not supported")
)

func isHTTPScheme(scheme string) bool {
	return scheme == "http" || scheme == "https"
}

// isCrossOrigin reports whether two URLs have different hosts (port included).
func isCrossOrigin(a, b *url.URL) bool {
	return a.Host != b.Host
}

// redirectPolicy builds the CheckRedirect function for an option set.
//
// Without OptFollowLocation the first response is returned as is.
// Otherwise at most OptMaxRedirs hops are followed (negative means no
// limit), non-HTTP targets are refused, and custom headers are dropped
// when the host changes. OptAutoReferer controls whether the previous
// URL is sent as Referer.
func redirectPolicy(opts Options) func(*http.Request, []*http.Request) error {
	follow := opts.getBool(OptFollowLocation)
	maxRedirs := opts.getInt(OptMaxRedirs)
	autoReferer := opts.getBool(OptAutoReferer)
	referer := opts.getString(OptReferer)

	return func(req *http.Request, via []*http.Request) error {
		if !follow {
			return http.ErrUseLastResponse
		}
		if maxRedirs >= 0 && len(via) > maxRedirs {
			lastURL := via[len(via)-1].URL.String()
			return fmt.Errorf("%w: %d (last URL: %s)", ErrTooManyRedirects, maxRedirs, lastURL)
		}
		prev := via[len(via)-1]
		if isHTTPScheme(prev.URL.Scheme) && !isHTTPScheme(req.URL.Scheme) {
			return fmt.Errorf("%w: %s -> %s", ErrCrossProtocolRedirect, prev.URL.Scheme, req.URL.Scheme)
		}
		if isCrossOrigin(prev.URL, req.URL) {
			stripUnsafeHeaders(req)
		}
		switch {
		case autoReferer:
			req.Header.Set(REFERER_KEY, prev.URL.String())
		case referer != "":
			req.Header.Set(REFERER_KEY, referer)
		default:
			req.Header.Del(REFERER_KEY)
		}
		return nil
	}
}

// safeHeaders survive cross-origin redirects.
var safeHeaders = map[string]bool{
	"User-Agent":      true,
	"Accept":          true,
	"Accept-Language": true,
	"Accept-Encoding": true,
	"Referer":         true,
	"Content-Type":    true,
}

func stripUnsafeHeaders(req *http.Request) {
	for key := range req.Header {
		if !safeHeaders[http.CanonicalHeaderKey(key)] {
			req.Header.Del(key)
		}
	}
}
