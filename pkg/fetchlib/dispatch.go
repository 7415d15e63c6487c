package fetchlib

// dispatch settles one completion: counters, callback, handle release.
func (e *Engine) dispatch(c *Completion) {
	defer func() {
		if err := e.transport.Release(c.Handle); err != nil {
			e.l.Warning("%s: release: %v", c.URL, err)
		}
	}()

	if !c.OK() {
		e.mu.Lock()
		e.stats.failed++
		e.mu.Unlock()
		e.l.Warning("%v", &TransferError{URL: c.URL, Code: c.Result, Err: c.Err})
		return
	}

	e.mu.Lock()
	e.stats.bytes += uint64(c.SizeDownload)
	cb, _ := e.registry.lookup(identityOf(c.URL))
	e.mu.Unlock()

	e.invoke(cb, c)

	e.mu.Lock()
	e.stats.succeeded++
	e.mu.Unlock()
}

// invoke calls cb without holding the engine mutex.
func (e *Engine) invoke(cb Callback, c *Completion) {
	if cb == nil {
		return
	}
	if e.recoverCb {
		defer func() {
			if r := recover(); r != nil {
				e.mu.Lock()
				e.stats.faults++
				e.mu.Unlock()
				e.l.Error("%s: callback panicked: %v", c.URL, r)
			}
		}()
	}
	cb(c.Handle.Content())
}
