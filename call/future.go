package call

import (
	"sync"
	"sync/atomic"

	"github.com/calder/facet/pkg/stdx"
)

// Future is the read side of an asynchronous call: Get blocks until the
// producing goroutine resolves the value or fails.
type Future[T any] interface {
	Get() (T, error)
}

// CompletableFuture exposes both the consumer and producer halves.
type CompletableFuture[T any] interface {
	Future[T]
	Complete(T)
	Fail(error)
}

type futState[T any] struct {
	value T
	err   error
}

type futResult[T any] struct {
	result T
	err    error
	done   bool
}

type future[T any] struct {
	ch     chan futState[T]
	result atomic.Value // holds *futResult[T]
	once   sync.Once
	mu     sync.Mutex
}

// NewFuture returns a future that resolves at most once. Later Complete
// or Fail calls are ignored, and every Get observes the same outcome.
func NewFuture[T any]() CompletableFuture[T] {
	f := &future[T]{ch: make(chan futState[T], 1)}
	f.result.Store(&futResult[T]{})
	return f
}

func (f *future[T]) Get() (T, error) {
	res := f.result.Load().(*futResult[T])
	if res.done {
		return res.result, res.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check after acquiring lock
	res = f.result.Load().(*futResult[T])
	if res.done {
		return res.result, res.err
	}

	r := <-f.ch
	newResult := futResult[T]{result: r.value, err: r.err, done: true}
	if r.err != nil {
		newResult.result = stdx.Zero[T]()
	}
	f.result.Store(&newResult)
	return newResult.result, newResult.err
}

func (f *future[T]) Complete(value T) {
	f.once.Do(func() {
		f.ch <- futState[T]{value: value}
	})
}

func (f *future[T]) Fail(err error) {
	f.once.Do(func() {
		f.ch <- futState[T]{err: err}
	})
}
