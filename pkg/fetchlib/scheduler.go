package fetchlib

import (
	"errors"
	"fmt"
	"time"
)

// Run fetches every queued task, and every task submitted while it runs,
// keeping at most ConcurrencyLimit transfers in flight. It returns once
// nothing is queued or in flight.
//
// Run returns ErrEngineBusy if another Run is in progress. A panicking
// callback unwinds Run unless EngineOpts.RecoverCallbacks is set; the
// transport context is closed either way.
func (e *Engine) Run() (stats Stats, err error) {
	if !e.begin() {
		return e.Snapshot(), ErrEngineBusy
	}
	defer e.end()

	start := time.Now()
	defer func() {
		e.mu.Lock()
		e.stats.elapsed = time.Since(start)
		e.mu.Unlock()
		stats = e.Snapshot()
	}()

	multi, err := e.transport.NewMulti()
	if err != nil {
		return stats, fmt.Errorf("open transport: %w", err)
	}
	defer func() {
		if cerr := multi.Close(); cerr != nil {
			e.l.Warning("closing transport: %v", cerr)
		}
	}()

	e.l.Info("run started: %d queued, limit %d", e.Pending(), e.ConcurrencyLimit())
	s := &scheduler{e: e, multi: multi}
	if err := s.loop(); err != nil {
		e.l.Error("run aborted: %v", err)
		return stats, err
	}
	e.l.Info("run finished in %s", time.Since(start))
	return stats, nil
}

// scheduler drives one run. It is used from the Run goroutine only.
type scheduler struct {
	e      *Engine
	multi  Multi
	active int
}

func (s *scheduler) loop() error {
	for {
		if err := s.refill(); err != nil {
			return err
		}
		if s.active == 0 {
			return nil
		}
		if _, err := s.multi.Perform(); err != nil {
			return fmt.Errorf("perform: %w", err)
		}
		n, err := s.harvest()
		if err != nil {
			return err
		}
		if n == 0 {
			if err := s.wait(); err != nil {
				return err
			}
		}
	}
}

// refill starts queued tasks until the limit is reached or the queue
// is empty.
func (s *scheduler) refill() error {
	for s.active < s.e.effectiveLimit() {
		t, opts, ok := s.e.next()
		if !ok {
			return nil
		}
		h := BuildHandle(t.url, opts, nil)
		if err := s.multi.Add(h); err != nil {
			// The task goes back to the head of the queue so a later run
			// starts it first.
			s.e.requeue(t)
			if rerr := s.e.transport.Release(h); rerr != nil {
				s.e.l.Warning("%s: release: %v", h.URL(), rerr)
			}
			return fmt.Errorf("add %s: %w", t.url, err)
		}
		s.active++
	}
	return nil
}

// harvest dispatches every completion the transport has ready, refilling
// after each one. It returns the number dispatched.
func (s *scheduler) harvest() (int, error) {
	n := 0
	for {
		c, ok := s.multi.InfoRead()
		if !ok {
			return n, nil
		}
		if err := s.multi.Remove(c.Handle); err != nil {
			if rerr := s.e.transport.Release(c.Handle); rerr != nil {
				s.e.l.Warning("%s: release: %v", c.URL, rerr)
			}
			return n, fmt.Errorf("remove %s: %w", c.URL, err)
		}
		s.active--
		n++
		s.e.dispatch(c)
		if err := s.refill(); err != nil {
			return n, err
		}
	}
}

func (s *scheduler) wait() error {
	_, err := s.multi.Wait(s.e.waitTimeout)
	if errors.Is(err, ErrWaitUnsupported) {
		time.Sleep(s.e.pollInterval)
		return nil
	}
	if err != nil {
		return fmt.Errorf("wait: %w", err)
	}
	return nil
}
