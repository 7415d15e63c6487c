package fetchlib

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/proxy"
)

// ProxyConfig holds a parsed OptProxy value.
type ProxyConfig struct {
	Scheme   string
	Host     string
	Username string
	Password string
}

// URL returns the proxy URL as a string.
func (p *ProxyConfig) URL() string {
	var sb strings.Builder
	sb.WriteString(p.Scheme)
	sb.WriteString("://")
	if p.Username != "" {
		sb.WriteString(url.PathEscape(p.Username))
		if p.Password != "" {
			sb.WriteString(":")
			sb.WriteString(url.PathEscape(p.Password))
		}
		sb.WriteString("@")
	}
	sb.WriteString(p.Host)
	return sb.String()
}

var (
	ErrEmptyProxyURL     = errors.New("proxy URL cannot be empty")
	ErrUnsupportedScheme = errors.New("unsupported proxy scheme")
	ErrInvalidProxyURL   = errors.New("invalid proxy URL")
)

var supportedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"socks5": true,
}

// ParseProxyURL parses and validates a proxy URL string.
func ParseProxyURL(proxyURL string) (*ProxyConfig, error) {
	if proxyURL == "" {
		return nil, ErrEmptyProxyURL
	}

	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, ErrInvalidProxyURL
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, ErrInvalidProxyURL
	}
	if !supportedSchemes[parsed.Scheme] {
		return nil, ErrUnsupportedScheme
	}

	config := &ProxyConfig{
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
	}
	if parsed.User != nil {
		config.Username = parsed.User.Username()
		config.Password, _ = parsed.User.Password()
	}
	return config, nil
}

// applyProxy routes tr through the proxy described by proxyURL. An empty
// proxyURL falls back to the HTTP_PROXY/HTTPS_PROXY/NO_PROXY environment.
func applyProxy(tr *http.Transport, dialer *net.Dialer, proxyURL string) error {
	if proxyURL == "" {
		tr.Proxy = http.ProxyFromEnvironment
		return nil
	}
	cfg, err := ParseProxyURL(proxyURL)
	if err != nil {
		return err
	}
	if cfg.Scheme != "socks5" {
		u, err := url.Parse(cfg.URL())
		if err != nil {
			return ErrInvalidProxyURL
		}
		tr.Proxy = http.ProxyURL(u)
		return nil
	}

	var auth *proxy.Auth
	if cfg.Username != "" {
		auth = &proxy.Auth{User: cfg.Username, Password: cfg.Password}
	}
	d, err := proxy.SOCKS5("tcp", cfg.Host, auth, dialer)
	if err != nil {
		return err
	}
	tr.Proxy = nil
	if cd, ok := d.(proxy.ContextDialer); ok {
		tr.DialContext = cd.DialContext
	} else {
		tr.DialContext = nil
		tr.Dial = d.Dial
	}
	return nil
}
