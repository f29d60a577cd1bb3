// Package async provides a tiny dispatch queue that marshals callbacks from
// background goroutines back onto the game loop. Drain is called once per
// frame from Update, so everything posted here runs single-threaded.
package async

import "sync"

type Queue struct {
	mu  sync.Mutex
	fns []func()
}

func NewQueue() *Queue {
	return &Queue{}
}

// Post enqueues fn to run on the next Drain. Safe from any goroutine.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
}

// Drain runs every queued callback in post order. Callbacks may Post again;
// those run on the next Drain, not this one.
func (q *Queue) Drain() {
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Len reports the number of pending callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.fns)
}
