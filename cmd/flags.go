package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/urfave/cli"
	"github.com/warpdl/warpfetch/common"
	"github.com/warpdl/warpfetch/pkg/fetchlib"
	"github.com/warpdl/warpfetch/pkg/logger"
)

// transferFlags are accepted by every command that performs transfers.
var transferFlags = []cli.Flag{
	cli.DurationFlag{
		Name:   "connect-timeout",
		Usage:  "maximum time allowed for connecting",
		Value:  fetchlib.DEF_CONNECT_TIMEOUT,
		EnvVar: common.ConnectTimeoutEnv,
	},
	cli.DurationFlag{
		Name:   "timeout, t",
		Usage:  "maximum time allowed for a whole transfer (0 = no timeout)",
		Value:  fetchlib.DEF_TIMEOUT,
		EnvVar: common.TimeoutEnv,
	},
	cli.StringFlag{
		Name:   "user-agent, A",
		Usage:  "User-Agent to send, or one of the aliases warp, firefox, chrome",
		EnvVar: common.UserAgentEnv,
	},
	cli.StringSliceFlag{
		Name:  "header, H",
		Usage: `extra request header "Key: value" (repeatable)`,
	},
	cli.StringFlag{
		Name:  "referer, e",
		Usage: "Referer to send with the first request",
	},
	cli.StringFlag{
		Name:   "proxy, x",
		Usage:  "proxy URL (http, https or socks5); the HTTP_PROXY environment is used otherwise",
		EnvVar: common.ProxyEnv,
	},
	cli.StringFlag{
		Name:   "cookie, b",
		Usage:  "read cookies from a Netscape, Firefox or Chrome cookie store",
		EnvVar: common.CookieEnv,
	},
	cli.StringFlag{
		Name:  "cookie-jar, j",
		Usage: "write received cookies to this file in Netscape format",
	},
	cli.IntFlag{
		Name:  "max-redirs",
		Usage: "maximum number of redirects to follow (-1 = unlimited)",
		Value: fetchlib.DEF_MAX_REDIRS,
	},
	cli.BoolFlag{
		Name:  "no-follow",
		Usage: "do not follow redirects",
	},
	cli.BoolFlag{
		Name:  "include",
		Usage: "include the status line and response headers in the output",
	},
	cli.BoolFlag{
		Name:  "fail, f",
		Usage: "treat HTTP responses with status 400 or above as failures",
	},
	cli.StringFlag{
		Name:  "request, X",
		Usage: "request method to use",
	},
	cli.BoolFlag{
		Name:   "verbose",
		Usage:  "log engine activity to stderr",
		EnvVar: common.VerboseEnv,
	},
	cli.StringFlag{
		Name:   "log-level",
		Usage:  "lowest level logged with --verbose: info, warning or error",
		Value:  "info",
		EnvVar: common.LogLevelEnv,
	},
}

var fetchFlags = append([]cli.Flag{
	cli.StringFlag{
		Name:  "data, d",
		Usage: "send this request body (makes the request a POST)",
	},
	cli.StringFlag{
		Name:  "output, o",
		Usage: "write the body to this file instead of stdout",
	},
}, transferFlags...)

var crawlFlags = append([]cli.Flag{
	cli.StringFlag{
		Name:  "input-file, i",
		Usage: "read URLs from a file, one per line (# starts a comment)",
	},
	cli.IntFlag{
		Name:   "concurrency, c",
		Usage:  "maximum number of transfers in flight",
		Value:  fetchlib.DEF_CONCURRENCY,
		EnvVar: common.ConcurrencyEnv,
	},
	cli.StringFlag{
		Name:  "output-dir, O",
		Usage: "write each body to <dir>/<identity>.body instead of printing a line",
	},
	cli.BoolFlag{
		Name:  "quiet, q",
		Usage: "do not show the progress bar",
	},
}, transferFlags...)

// buildOptions turns the transfer flags into engine default options.
func buildOptions(ctx *cli.Context) (fetchlib.Options, error) {
	opts := fetchlib.DefaultOptions()
	headers := opts[fetchlib.OptHTTPHeader].(fetchlib.Headers)
	for _, line := range ctx.StringSlice("header") {
		parsed := fetchlib.ParseHeaders(line)
		if len(parsed) == 0 {
			return nil, fmt.Errorf("invalid header %q, expected \"Key: value\"", line)
		}
		headers.Update(parsed[0].Key, parsed[0].Value)
	}

	if p := ctx.String("proxy"); p != "" {
		if _, err := fetchlib.ParseProxyURL(p); err != nil {
			return nil, fmt.Errorf("proxy %q: %w", p, err)
		}
	}

	steps := []struct {
		key fetchlib.Option
		v   any
		use bool
	}{
		{fetchlib.OptConnectTimeout, ctx.Duration("connect-timeout"), true},
		{fetchlib.OptTimeout, ctx.Duration("timeout"), true},
		{fetchlib.OptHTTPHeader, headers, true},
		{fetchlib.OptUserAgent, getUserAgent(ctx.String("user-agent")), ctx.String("user-agent") != ""},
		{fetchlib.OptReferer, ctx.String("referer"), ctx.String("referer") != ""},
		{fetchlib.OptProxy, ctx.String("proxy"), ctx.String("proxy") != ""},
		{fetchlib.OptCookieFile, ctx.String("cookie"), true},
		{fetchlib.OptCookieJar, ctx.String("cookie-jar"), true},
		{fetchlib.OptMaxRedirs, ctx.Int("max-redirs"), true},
		{fetchlib.OptFollowLocation, !ctx.Bool("no-follow"), true},
		{fetchlib.OptHeader, ctx.Bool("include"), true},
		{fetchlib.OptFailOnError, ctx.Bool("fail"), true},
		{fetchlib.OptCustomRequest, strings.ToUpper(ctx.String("request")), ctx.String("request") != ""},
	}
	for _, s := range steps {
		if !s.use {
			continue
		}
		if err := opts.Set(s.key, s.v); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// newLogger returns the logger for a command: stderr with --verbose,
// filtered by --log-level, silent otherwise.
func newLogger(ctx *cli.Context) (logger.Logger, error) {
	if !ctx.Bool("verbose") {
		return logger.NewNopLogger(), nil
	}
	lvl, ok := logger.ParseLevel(ctx.String("log-level"))
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", ctx.String("log-level"))
	}
	return logger.NewLeveledLogger(log.New(stderr, "", log.LstdFlags), lvl), nil
}
