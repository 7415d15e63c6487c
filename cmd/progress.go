package cmd

import (
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/warpdl/warpfetch/pkg/fetchlib"
)

// ProgressWatcher copies engine counters onto a progress bar on every
// tick. Failed transfers never reach a callback, so the bar follows the
// stats rather than the callbacks.
type ProgressWatcher struct {
	ticker   *time.Ticker
	snapshot func() fetchlib.Stats
	bar      *mpb.Bar
	done     chan struct{}
	stopped  chan struct{}
}

func NewProgressWatcher(refreshRate time.Duration, snapshot func() fetchlib.Stats) *ProgressWatcher {
	return &ProgressWatcher{
		ticker:   time.NewTicker(refreshRate),
		snapshot: snapshot,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (w *ProgressWatcher) SetBar(bar *mpb.Bar) {
	w.bar = bar
}

func (w *ProgressWatcher) Start() {
	go w.worker()
}

// Stop halts the watcher and pushes the final counters to the bar.
func (w *ProgressWatcher) Stop() {
	w.ticker.Stop()
	close(w.done)
	<-w.stopped
	w.update()
}

// Finish stops the watcher and waits for p to render the bar for the
// last time. A bar short of its total, as left by a run that ended
// early, is aborted so that p.Wait returns.
func (w *ProgressWatcher) Finish(p *mpb.Progress) {
	w.Stop()
	if w.bar != nil {
		w.bar.Abort(false)
	}
	p.Wait()
}

func (w *ProgressWatcher) worker() {
	defer close(w.stopped)
	for {
		select {
		case <-w.done:
			return
		case <-w.ticker.C:
			w.update()
		}
	}
}

func (w *ProgressWatcher) update() {
	if w.bar == nil {
		return
	}
	w.bar.SetCurrent(int64(w.snapshot().Done()))
}
