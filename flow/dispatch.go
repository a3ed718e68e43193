package flow

import "sync"

// Dispatcher runs callbacks on a designated execution context.
type Dispatcher interface {
	Dispatch(fn func())
}

// InlineDispatcher runs fn on the calling goroutine.
type InlineDispatcher struct{}

func (InlineDispatcher) Dispatch(fn func()) {
	fn()
}

// MainQueue runs dispatched funcs one at a time, in order, on a single goroutine.
// Dispatch never blocks, so dispatched funcs may dispatch further work.
type MainQueue struct {
	mu      sync.Mutex
	pending []func()
	closed  bool

	wake    chan struct{}
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

var _ Dispatcher = (*MainQueue)(nil)

func NewMainQueue() *MainQueue {
	q := &MainQueue{
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go q.run()
	return q
}

// Dispatch queues fn. Funcs dispatched after Close are dropped.
func (q *MainQueue) Dispatch(fn func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Close runs whatever is already queued and stops the goroutine.
// It must not be called from a dispatched func.
func (q *MainQueue) Close() {
	q.once.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
		close(q.quit)
	})
	<-q.stopped
}

func (q *MainQueue) run() {
	defer close(q.stopped)
	for {
		select {
		case <-q.wake:
			q.drain()
		case <-q.quit:
			q.drain()
			return
		}
	}
}

func (q *MainQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		fn()
	}
}
