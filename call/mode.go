package call

import (
	"context"
	"iter"
)

// ExecMode is the execution variant of one call, chosen once at setup
// time and carried explicitly. The four variants cover the cross product
// of blocking vs promise-based results and complete vs streamed
// responses; sync and async are never mixed within one call.
type ExecMode uint8

const (
	// ModeSync performs a blocking call returning a complete Response.
	ModeSync ExecMode = iota
	// ModeAsync performs the call on a goroutine and resolves a Future.
	ModeAsync
	// ModeSyncStreaming returns a lazily pulled chunk sequence.
	ModeSyncStreaming
	// ModeAsyncStreaming pushes stream events into a channel.
	ModeAsyncStreaming
)

// Streaming reports whether the mode yields incremental chunks.
func (m ExecMode) Streaming() bool {
	return m == ModeSyncStreaming || m == ModeAsyncStreaming
}

// Async reports whether results are delivered through a Future or channel.
func (m ExecMode) Async() bool {
	return m == ModeAsync || m == ModeAsyncStreaming
}

func (m ExecMode) String() string {
	switch m {
	case ModeSync:
		return "sync"
	case ModeAsync:
		return "async"
	case ModeSyncStreaming:
		return "sync-streaming"
	case ModeAsyncStreaming:
		return "async-streaming"
	default:
		return "unknown"
	}
}

// CreateFn is the uniform calling convention a provider setup returns.
// Invoke performs one complete call; Stream opens a lazy chunk sequence.
// Network I/O happens only when one of the two is called, never during
// setup itself.
//
// The sequence returned by Stream is single-consumption. A non-nil error
// yielded mid-sequence is a transport error from the wrapped SDK, passed
// through unmodified.
type CreateFn interface {
	Invoke(ctx context.Context) (Response, error)
	Stream(ctx context.Context) (iter.Seq2[Chunk, error], error)
}

// Creator adapts two closures to the CreateFn interface.
type Creator struct {
	InvokeFn func(ctx context.Context) (Response, error)
	StreamFn func(ctx context.Context) (iter.Seq2[Chunk, error], error)
	_        struct{}
}

func (c Creator) Invoke(ctx context.Context) (Response, error) {
	if c.InvokeFn == nil {
		return nil, Configf("create function does not support non-streaming calls")
	}
	return c.InvokeFn(ctx)
}

func (c Creator) Stream(ctx context.Context) (iter.Seq2[Chunk, error], error) {
	if c.StreamFn == nil {
		return nil, Configf("create function does not support streaming calls")
	}
	return c.StreamFn(ctx)
}
