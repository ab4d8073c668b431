// File: client/dispatcher.go
// Author: momentics <momentics@gmail.com>
//
// actionDispatcher serializes deferred message-received dispatch onto a
// single worker goroutine, so a slow or panicking message-received
// subscriber cannot stall a receive loop or leak a buffer. Disconnected
// handlers do not go through it. Backed by github.com/eapache/queue's
// auto-growing ring-buffer FIFO; the module's pooled-resource caps use
// buffered channels instead.

package client

import (
	"sync"

	"github.com/eapache/queue"
)

type actionDispatcher struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  *queue.Queue
	maxLen int
	closed bool
	wg     sync.WaitGroup
}

// newActionDispatcher starts the worker goroutine. maxLen <= 0 means
// unbounded, matching a zero-value max_action_dispatcher_tasks.
func newActionDispatcher(maxLen int) *actionDispatcher {
	d := &actionDispatcher{tasks: queue.New(), maxLen: maxLen}
	d.cond = sync.NewCond(&d.mu)
	d.wg.Add(1)
	go d.run()
	return d
}

// Dispatch enqueues fn for asynchronous execution. Returns false (task
// dropped) if the dispatcher is closed or already at capacity.
func (d *actionDispatcher) Dispatch(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	if d.maxLen > 0 && d.tasks.Length() >= d.maxLen {
		return false
	}
	d.tasks.Add(fn)
	d.cond.Signal()
	return true
}

func (d *actionDispatcher) run() {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		for d.tasks.Length() == 0 && !d.closed {
			d.cond.Wait()
		}
		if d.tasks.Length() == 0 && d.closed {
			d.mu.Unlock()
			return
		}
		fn := d.tasks.Peek().(func())
		d.tasks.Remove()
		d.mu.Unlock()

		runTask(fn)
	}
}

// runTask isolates a single subscriber's panic so it cannot take down the
// dispatcher worker.
func runTask(fn func()) {
	defer func() { recover() }()
	fn()
}

// Close stops accepting new tasks and waits for the worker to drain
// whatever is already queued.
func (d *actionDispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.cond.Broadcast()
	d.mu.Unlock()
	d.wg.Wait()
}
