package cookies

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrCookieFileNotFound is wrapped by every error caused by a missing store.
var ErrCookieFileNotFound = errors.New("cookie file not found")

// CookieFormat identifies the format of a cookie store.
type CookieFormat int

const (
	// FormatUnknown means the cookie store format could not be detected.
	FormatUnknown CookieFormat = 0
	// FormatFirefox is the Firefox moz_cookies SQLite schema.
	FormatFirefox CookieFormat = 1
	// FormatChrome is the Chrome cookies SQLite schema.
	FormatChrome CookieFormat = 2
	// FormatNetscape is the Netscape tab-separated text format.
	FormatNetscape CookieFormat = 3
)

func (f CookieFormat) String() string {
	switch f {
	case FormatFirefox:
		return "Firefox"
	case FormatChrome:
		return "Chrome"
	case FormatNetscape:
		return "Netscape"
	default:
		return "unknown"
	}
}

// Cookie is a single stored cookie.
type Cookie struct {
	Name string
	// Value is SENSITIVE, never log it.
	Value string
	// Domain may carry a leading dot for subdomain-inclusive cookies.
	Domain string
	Path   string
	// Expiry is the zero time for session cookies.
	Expiry   time.Time
	Secure   bool
	HttpOnly bool
}

// Session reports whether the cookie has no explicit expiry.
func (c Cookie) Session() bool {
	return c.Expiry.IsZero() || c.Expiry.Unix() <= 0
}

// IncludeSubdomains reports whether the cookie applies to subdomains.
func (c Cookie) IncludeSubdomains() bool {
	return strings.HasPrefix(c.Domain, ".")
}

// Host returns the domain without its leading dot.
func (c Cookie) Host() string {
	return strings.TrimPrefix(c.Domain, ".")
}

// OriginURL returns the URL a cookie jar should store the cookie under.
func (c Cookie) OriginURL() *url.URL {
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	return &url.URL{Scheme: scheme, Host: c.Host(), Path: "/"}
}

// HTTPCookie converts c for use with an http.CookieJar.
func (c Cookie) HTTPCookie() *http.Cookie {
	hc := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
	if c.IncludeSubdomains() {
		hc.Domain = c.Host()
	}
	if !c.Session() {
		hc.Expires = c.Expiry
	}
	return hc
}

// CookieSource describes where cookies were imported from.
type CookieSource struct {
	Path    string
	Format  CookieFormat
	Browser string
}

// matchesDomain reports whether cookieDomain applies to domain.
// An empty domain matches everything.
func matchesDomain(cookieDomain, domain string) bool {
	if domain == "" {
		return true
	}
	dotDomain := "." + domain
	return cookieDomain == domain || cookieDomain == dotDomain ||
		strings.HasSuffix(cookieDomain, dotDomain)
}
