package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/warpdl/warpfetch/cmd/common"
	"github.com/warpdl/warpfetch/pkg/fetchlib"
)

var (
	// appFs is where output files and input lists live. Tests swap in a
	// memory filesystem.
	appFs afero.Fs = afero.NewOsFs()
	// stdout receives bodies and result lines.
	stdout io.Writer = os.Stdout
	// stderr receives the progress bar.
	stderr io.Writer = os.Stderr
)

func fetch(ctx *cli.Context) error {
	url := ctx.Args().First()
	if url == "" {
		if ctx.Command.Name == "" {
			return common.Help(ctx)
		}
		return common.PrintErrWithCmdHelp(
			ctx,
			errors.New("no url provided"),
		)
	} else if url == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}

	opts, err := buildOptions(ctx)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	l, err := newLogger(ctx)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	defer l.Close()

	e := fetchlib.NewEngine(&fetchlib.EngineOpts{
		Logger:         l,
		DefaultOptions: opts,
	})
	body, err := e.Fetch(context.Background(), url, []byte(ctx.String("data")), nil)
	if err != nil {
		common.PrintRuntimeErr(ctx, "fetch", "transfer", err)
		return cli.NewExitError("", 1)
	}

	if out := ctx.String("output"); out != "" {
		if err := afero.WriteFile(appFs, out, body, 0644); err != nil {
			common.PrintRuntimeErr(ctx, "fetch", "write_output", err)
			return cli.NewExitError("", 1)
		}
		return nil
	}
	_, err = stdout.Write(body)
	return err
}
