// Package fetchlib is a bounded-concurrency HTTP fetch engine.
//
// An Engine accepts URLs with per-URL callbacks, deduplicates them by
// identity, and runs them through a Transport while keeping at most
// ConcurrencyLimit transfers in flight:
//
//	e := fetchlib.NewEngine(nil)
//	e.SetConcurrencyLimit(8)
//	e.SubmitURL("https://example.com/", nil, func(body []byte) {
//		fmt.Println(len(body))
//	})
//	stats, err := e.Run()
//
// Run is driven by a single goroutine. Callbacks are invoked on that
// goroutine, one at a time, and may call Submit to enqueue more work.
package fetchlib
