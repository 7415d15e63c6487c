package fetchlib

// task is a submitted URL that has not been handed to the transport yet.
type task struct {
	id  Identity
	url string
	// opts replaces the engine defaults when non-empty.
	opts Options
}

// taskQueue holds tasks in submission order. It is guarded by the
// engine mutex.
type taskQueue struct {
	waiting []*task
}

func newTaskQueue() *taskQueue {
	return &taskQueue{waiting: make([]*task, 0)}
}

func (q *taskQueue) push(t *task) {
	q.waiting = append(q.waiting, t)
}

// pushFront puts t back ahead of every waiting task.
func (q *taskQueue) pushFront(t *task) {
	q.waiting = append([]*task{t}, q.waiting...)
}

// pop removes and returns the oldest task.
func (q *taskQueue) pop() (*task, bool) {
	if len(q.waiting) == 0 {
		return nil, false
	}
	next := q.waiting[0]
	q.waiting[0] = nil
	q.waiting = q.waiting[1:]
	return next, true
}

// drain empties the queue and returns what it held, oldest first.
func (q *taskQueue) drain() []*task {
	out := q.waiting
	q.waiting = make([]*task, 0)
	return out
}

func (q *taskQueue) len() int {
	return len(q.waiting)
}
