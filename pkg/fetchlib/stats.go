package fetchlib

import "time"

// Stats is a point-in-time view of an engine's counters.
type Stats struct {
	// BytesDownloaded sums the body sizes of successful transfers.
	BytesDownloaded uint64
	// UniqueTasks is the number of distinct identities registered.
	UniqueTasks uint64
	// TotalTasks counts every submitted URL, duplicates included.
	TotalTasks uint64
	// Succeeded counts successful transfers plus duplicate submissions.
	Succeeded uint64
	// Failed counts transfers that did not complete successfully.
	Failed uint64
	// CallbackFaults counts recovered callback panics.
	CallbackFaults uint64
	// Elapsed is the wall time of the most recent run.
	Elapsed time.Duration
}

// ElapsedSeconds returns Elapsed in seconds.
func (s Stats) ElapsedSeconds() float64 {
	return s.Elapsed.Seconds()
}

// Done returns the number of submissions that reached an outcome.
func (s Stats) Done() uint64 {
	return s.Succeeded + s.Failed
}

// statsCollector holds the mutable counters behind Stats.
// It is guarded by the engine mutex.
type statsCollector struct {
	bytes     uint64
	total     uint64
	succeeded uint64
	failed    uint64
	faults    uint64
	elapsed   time.Duration
}

func (c *statsCollector) snapshot(unique int) Stats {
	return Stats{
		BytesDownloaded: c.bytes,
		UniqueTasks:     uint64(unique),
		TotalTasks:      c.total,
		Succeeded:       c.succeeded,
		Failed:          c.failed,
		CallbackFaults:  c.faults,
		Elapsed:         c.elapsed,
	}
}
