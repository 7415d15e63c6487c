package fetchlib

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// transportKey identifies the settings that cannot vary per request on
// a shared *http.Transport.
type transportKey struct {
	connectTimeout time.Duration
	proxy          string
}

// clientPool hands out http.Clients whose transports, and therefore
// connection pools, are shared between handles with the same settings.
type clientPool struct {
	mu         sync.Mutex
	transports map[transportKey]*http.Transport
}

func newClientPool() *clientPool {
	return &clientPool{transports: make(map[transportKey]*http.Transport)}
}

func (p *clientPool) transport(opts Options) (*http.Transport, error) {
	key := transportKey{
		connectTimeout: opts.getDuration(OptConnectTimeout),
		proxy:          opts.getString(OptProxy),
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if tr, ok := p.transports[key]; ok {
		return tr, nil
	}

	dialer := &net.Dialer{Timeout: key.connectTimeout, KeepAlive: 30 * time.Second}
	tr := &http.Transport{
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   key.connectTimeout,
		ExpectContinueTimeout: time.Second,
	}
	if err := applyProxy(tr, dialer, key.proxy); err != nil {
		return nil, err
	}
	p.transports[key] = tr
	return tr, nil
}

// client returns a client configured for opts. jar may be nil.
func (p *clientPool) client(opts Options, jar http.CookieJar) (*http.Client, error) {
	tr, err := p.transport(opts)
	if err != nil {
		return nil, err
	}
	c := &http.Client{
		Transport:     tr,
		CheckRedirect: redirectPolicy(opts),
		Timeout:       opts.getDuration(OptTimeout),
	}
	if jar != nil {
		c.Jar = jar
	}
	return c, nil
}

func (p *clientPool) closeIdle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, tr := range p.transports {
		tr.CloseIdleConnections()
	}
}
