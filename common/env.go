// Package common holds names shared by the warpfetch command line and its
// configuration.
package common

// Environment variables read by the command line flags.
const (
	// ConcurrencyEnv sets the default crawl concurrency.
	ConcurrencyEnv = "WARPFETCH_CONCURRENCY"

	// TimeoutEnv sets the whole-transfer timeout, e.g. "30s".
	TimeoutEnv = "WARPFETCH_TIMEOUT"

	// ConnectTimeoutEnv sets the connection timeout, e.g. "10s".
	ConnectTimeoutEnv = "WARPFETCH_CONNECT_TIMEOUT"

	// UserAgentEnv sets the User-Agent, or one of the aliases warp, firefox, chrome.
	UserAgentEnv = "WARPFETCH_USER_AGENT"

	// ProxyEnv sets the proxy URL (http, https or socks5).
	ProxyEnv = "WARPFETCH_PROXY"

	// CookieEnv names the cookie store read before each transfer.
	CookieEnv = "WARPFETCH_COOKIE"

	// VerboseEnv enables engine logging on stderr.
	VerboseEnv = "WARPFETCH_VERBOSE"

	// LogLevelEnv sets the lowest logged level: info, warning or error.
	LogLevelEnv = "WARPFETCH_LOG_LEVEL"
)
