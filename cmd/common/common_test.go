package common

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	"github.com/warpdl/warpfetch/pkg/fetchlib"
)

func newTestContext() *cli.Context {
	app := cli.NewApp()
	app.Name = "warpfetch"
	app.Version = "test"
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "cmd"}
	return ctx
}

// waitProgress fails the test if p does not finish rendering in time.
func waitProgress(t *testing.T, p *mpb.Progress) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("progress did not finish")
	}
}

func TestInitCrawlBar(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		abort   bool
	}{
		{"all tasks done", 3, false},
		{"run ended early", 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mpb.New(mpb.WithOutput(io.Discard))
			bar := InitCrawlBar(p, 3, func() int64 { return 2048 })
			if bar == nil {
				t.Fatalf("expected bar")
			}
			bar.SetCurrent(tt.current)
			if tt.abort {
				bar.Abort(false)
			}
			waitProgress(t, p)
			if bar.Completed() == tt.abort {
				t.Fatalf("completed = %v with current %d of 3", bar.Completed(), tt.current)
			}
			if bar.Aborted() != tt.abort {
				t.Fatalf("aborted = %v, want %v", bar.Aborted(), tt.abort)
			}
		})
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	PrintStats(&buf, fetchlib.Stats{
		UniqueTasks:     4,
		TotalTasks:      5,
		Succeeded:       4,
		Failed:          1,
		BytesDownloaded: 2048,
		Elapsed:         1500 * time.Millisecond,
	})
	out := buf.String()
	for _, want := range []string{"Crawl stats", "Total tasks     : 5", "Failed          : 1", "2.00 KiB", "1.500s"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Callback faults") {
		t.Errorf("callback faults shown without faults")
	}

	buf.Reset()
	PrintStats(&buf, fetchlib.Stats{CallbackFaults: 2})
	if !strings.Contains(buf.String(), "Callback faults : 2") {
		t.Errorf("callback faults missing:\n%s", buf.String())
	}
}

func TestBeautAndReplic(t *testing.T) {
	if got := Beaut("hi", 4); got != " hi " {
		t.Fatalf("unexpected beaut output: %q", got)
	}
	if got := Beaut("hi", 5); got != " hi  " {
		t.Fatalf("unexpected beaut output for odd padding: %q", got)
	}
	vals := replic('x', 3)
	if len(vals) != 3 || vals[0] != 'x' {
		t.Fatalf("unexpected replic output: %v", vals)
	}
	if len(replic('x', -2)) != 0 {
		t.Fatalf("negative replic must be empty")
	}
}

func TestPrintRuntimeErr(t *testing.T) {
	PrintRuntimeErr(nil, "cmd", "action", nil)
	PrintRuntimeErr(nil, "cmd", "action", errors.New("boom"))
	PrintRuntimeErr(newTestContext(), "cmd", "action", errors.New("boom"))
}

func TestPrintErrWithHelp(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"plain error", errors.New("oops")},
		{"help requested", errors.New("flag: help requested")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext()
			called := false
			orig := showAppHelpAndExit
			showAppHelpAndExit = func(*cli.Context, int) {
				called = true
			}
			defer func() { showAppHelpAndExit = orig }()

			if err := PrintErrWithHelp(ctx, tt.err); err != nil {
				t.Fatalf("PrintErrWithHelp: %v", err)
			}
			if !called {
				t.Fatalf("expected help to be called")
			}
		})
	}
	if err := PrintErrWithHelp(newTestContext(), nil); err != nil {
		t.Fatalf("nil error: %v", err)
	}
}

func TestPrintErrWithCmdHelp(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showCommandHelp
	showCommandHelp = func(*cli.Context, string) error {
		called = true
		return errors.New("boom")
	}
	defer func() { showCommandHelp = orig }()

	if err := PrintErrWithCmdHelp(ctx, errors.New("oops")); err != nil {
		t.Fatalf("PrintErrWithCmdHelp: %v", err)
	}
	if !called {
		t.Fatalf("expected command help to be called")
	}
}

func TestUsageErrorCallback(t *testing.T) {
	ctx := newTestContext()
	cmdHelp, appHelp := false, false
	origCmd, origApp := showCommandHelp, showAppHelpAndExit
	showCommandHelp = func(*cli.Context, string) error { cmdHelp = true; return nil }
	showAppHelpAndExit = func(*cli.Context, int) { appHelp = true }
	defer func() { showCommandHelp, showAppHelpAndExit = origCmd, origApp }()

	if err := UsageErrorCallback(ctx, errors.New("oops"), false); err != nil {
		t.Fatalf("UsageErrorCallback: %v", err)
	}
	ctx.Command = cli.Command{}
	if err := UsageErrorCallback(ctx, errors.New("oops"), false); err != nil {
		t.Fatalf("UsageErrorCallback: %v", err)
	}
	if !cmdHelp || !appHelp {
		t.Fatalf("cmdHelp=%v appHelp=%v", cmdHelp, appHelp)
	}
}

func TestHelp(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) {
		called = true
	}
	defer func() { showAppHelpAndExit = orig }()

	if err := Help(ctx); err != nil {
		t.Fatalf("Help: %v", err)
	}
	if !called {
		t.Fatalf("expected help to be called")
	}
}

func TestHelpWithCommandArg(t *testing.T) {
	app := cli.NewApp()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	_ = set.Parse([]string{"crawl"})
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "help"}
	called := ""
	orig := showCommandHelp
	showCommandHelp = func(_ *cli.Context, name string) error {
		called = name
		return nil
	}
	defer func() { showCommandHelp = orig }()

	if err := Help(ctx); err != nil {
		t.Fatalf("Help: %v", err)
	}
	if called != "crawl" {
		t.Fatalf("command help called for %q", called)
	}
}

func TestHelpWithCommandError(t *testing.T) {
	app := cli.NewApp()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	_ = set.Parse([]string{"nope"})
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "help"}
	orig := showCommandHelp
	showCommandHelp = func(*cli.Context, string) error {
		return errors.New("boom")
	}
	defer func() { showCommandHelp = orig }()

	if err := Help(ctx); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetVersion(t *testing.T) {
	VersionCmdStr = "warpfetch test"
	if err := GetVersion(newTestContext()); err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
}
