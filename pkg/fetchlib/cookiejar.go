package fetchlib

import (
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/warpdl/warpfetch/internal/cookies"
	"golang.org/x/net/publicsuffix"
)

// trackingJar is a cookiejar.Jar that also remembers every cookie it has
// been given, because cookiejar.Jar cannot be enumerated for export.
type trackingJar struct {
	jar *cookiejar.Jar

	mu   sync.Mutex
	seen map[string]cookies.Cookie
}

func newTrackingJar() (*trackingJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	return &trackingJar{jar: jar, seen: make(map[string]cookies.Cookie)}, nil
}

func (j *trackingJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

func (j *trackingJar) SetCookies(u *url.URL, cs []*http.Cookie) {
	j.jar.SetCookies(u, cs)

	now := time.Now()
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, hc := range cs {
		c := cookies.Cookie{
			Name:     hc.Name,
			Value:    hc.Value,
			Domain:   u.Hostname(),
			Path:     hc.Path,
			Secure:   hc.Secure,
			HttpOnly: hc.HttpOnly,
		}
		if hc.Domain != "" {
			c.Domain = "." + strings.TrimPrefix(hc.Domain, ".")
		}
		if c.Path == "" || c.Path[0] != '/' {
			c.Path = "/"
		}
		key := c.Domain + ";" + c.Path + ";" + c.Name
		switch {
		case hc.MaxAge < 0:
			delete(j.seen, key)
			continue
		case hc.MaxAge > 0:
			c.Expiry = now.Add(time.Duration(hc.MaxAge) * time.Second)
		case !hc.Expires.IsZero():
			c.Expiry = hc.Expires
		}
		if !c.Session() && c.Expiry.Before(now) {
			delete(j.seen, key)
			continue
		}
		j.seen[key] = c
	}
}

// load seeds the jar from a cookie store. A store that does not exist
// leaves the jar empty.
func (j *trackingJar) load(path string) error {
	loaded, _, err := cookies.ImportCookies(path, "")
	if err != nil {
		if errors.Is(err, cookies.ErrCookieFileNotFound) {
			return nil
		}
		return err
	}
	for _, c := range loaded {
		j.SetCookies(c.OriginURL(), []*http.Cookie{c.HTTPCookie()})
	}
	return nil
}

// snapshot returns the live cookies sorted by domain, path and name.
func (j *trackingJar) snapshot() []cookies.Cookie {
	now := time.Now()
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]cookies.Cookie, 0, len(j.seen))
	for _, c := range j.seen {
		if !c.Session() && c.Expiry.Before(now) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Domain != out[b].Domain {
			return out[a].Domain < out[b].Domain
		}
		if out[a].Path != out[b].Path {
			return out[a].Path < out[b].Path
		}
		return out[a].Name < out[b].Name
	})
	return out
}

func (j *trackingJar) save(path string) error {
	return cookies.SaveNetscapeFile(path, j.snapshot())
}

// newCookieJar builds the jar for a handle, or returns nil when the
// handle uses neither OptCookieFile nor OptCookieJar.
func newCookieJar(opts Options) (*trackingJar, error) {
	file := opts.getString(OptCookieFile)
	if file == "" && opts.getString(OptCookieJar) == "" {
		return nil, nil
	}
	jar, err := newTrackingJar()
	if err != nil {
		return nil, err
	}
	if file != "" {
		if err := jar.load(file); err != nil {
			return jar, err
		}
	}
	return jar, nil
}
