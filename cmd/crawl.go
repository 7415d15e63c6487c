package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	"github.com/warpdl/warpfetch/cmd/common"
	"github.com/warpdl/warpfetch/pkg/fetchlib"
)

// progressRefresh is how often the crawl bar reads the engine counters.
const progressRefresh = 150 * time.Millisecond

// collectURLs returns the positional URLs followed by those of the
// input file, if any.
func collectURLs(ctx *cli.Context) ([]string, error) {
	urls := append([]string{}, ctx.Args()...)
	if path := ctx.String("input-file"); path != "" {
		res, err := ParseInputFile(appFs, path)
		if err != nil {
			return nil, err
		}
		urls = append(urls, res.URLs...)
	}
	return urls, nil
}

func crawl(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	urls, err := collectURLs(ctx)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	if len(urls) == 0 {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no url provided"))
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

	outDir := ctx.String("output-dir")
	if outDir != "" {
		if err := appFs.MkdirAll(outDir, 0755); err != nil {
			common.PrintRuntimeErr(ctx, "crawl", "mkdir", err)
			return cli.NewExitError("", 1)
		}
	}

	e := fetchlib.NewEngine(&fetchlib.EngineOpts{
		Concurrency:    ctx.Int("concurrency"),
		Logger:         l,
		DefaultOptions: opts,
	})
	for _, u := range urls {
		e.SubmitURL(u, nil, bodyWriter(ctx, u, outDir))
	}

	var (
		p *mpb.Progress
		w *ProgressWatcher
	)
	if !ctx.Bool("quiet") {
		p = mpb.New(mpb.WithOutput(stderr), mpb.WithWidth(64))
		w = NewProgressWatcher(progressRefresh, e.Snapshot)
		w.SetBar(common.InitCrawlBar(p, int64(len(urls)), func() int64 {
			return int64(e.Snapshot().BytesDownloaded)
		}))
		w.Start()
	}

	stats, err := e.Run()
	if w != nil {
		w.Finish(p)
	}
	if err != nil {
		common.PrintRuntimeErr(ctx, "crawl", "run", err)
		return cli.NewExitError("", 1)
	}
	common.PrintStats(stdout, stats)
	if stats.Failed > 0 {
		return cli.NewExitError("", 1)
	}
	return nil
}

// bodyWriter returns the callback that handles the body of rawURL.
func bodyWriter(ctx *cli.Context, rawURL, outDir string) fetchlib.Callback {
	return func(body []byte) {
		if outDir == "" {
			fmt.Fprintf(stdout, "%s\t%d bytes\n", fetchlib.NormalizeURL(rawURL), len(body))
			return
		}
		name := filepath.Join(outDir, fetchlib.NewIdentity(rawURL).String()+".body")
		if err := afero.WriteFile(appFs, name, body, 0644); err != nil {
			common.PrintRuntimeErr(ctx, "crawl", "write_output", err)
		}
	}
}
