package hostmem

import "sync"

// stream runs queued operations one at a time in submission order.
type stream struct {
	mu      sync.Mutex
	ops     chan func()
	done    chan struct{}
	stopped bool
}

func newStream() *stream {
	st := &stream{
		ops:  make(chan func(), 64),
		done: make(chan struct{}),
	}
	go st.run()
	return st
}

func (st *stream) run() {
	defer close(st.done)
	for op := range st.ops {
		op()
	}
}

// enqueue queues op. It fails with ErrClosed once the stream is stopped.
func (st *stream) enqueue(op func()) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.stopped {
		return ErrClosed
	}
	st.ops <- op
	return nil
}

// synchronize returns once every operation queued before the call has run.
func (st *stream) synchronize() error {
	marker := make(chan struct{})
	if err := st.enqueue(func() { close(marker) }); err != nil {
		return err
	}
	<-marker
	return nil
}

func (st *stream) stop() {
	st.mu.Lock()
	if st.stopped {
		st.mu.Unlock()
		return
	}
	st.stopped = true
	close(st.ops)
	st.mu.Unlock()
	<-st.done
}
