package cmd

import (
	"bytes"
	"flag"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

// newFlagContext applies flags to a fresh flag set, parses args and
// wraps the result in a cli.Context.
func newFlagContext(t *testing.T, name string, flags []cli.Flag, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.SetOutput(io.Discard)
	for _, f := range flags {
		f.Apply(set)
	}
	if err := set.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	app := cli.NewApp()
	app.Name = "warpfetch"
	app.HelpName = "warpfetch"
	app.Writer = io.Discard
	return cli.NewContext(app, set, nil)
}

// useTestIO swaps the command outputs and filesystem for the duration
// of the test.
func useTestIO(t *testing.T) (out, errOut *bytes.Buffer, fs afero.Fs) {
	t.Helper()
	oldOut, oldErr, oldFs := stdout, stderr, appFs
	out, errOut, fs = &bytes.Buffer{}, &bytes.Buffer{}, afero.NewMemMapFs()
	stdout, stderr, appFs = out, errOut, fs
	t.Cleanup(func() {
		stdout, stderr, appFs = oldOut, oldErr, oldFs
	})
	return
}
