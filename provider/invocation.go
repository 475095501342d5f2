package provider

import (
	"context"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/calder/facet/call"
	"github.com/calder/facet/pkg/uuidx"
	"github.com/calder/facet/tool"
)

// Invocation is one fully assembled call, frozen at setup time. Its
// execution methods enforce the mode chosen during setup: exactly one of
// them is valid, the others fail with a configuration error before any
// network traffic.
type Invocation struct {
	// ProviderName identifies the backend that assembled this call.
	ProviderName string

	// Mode is the execution variant fixed at setup.
	Mode call.ExecMode

	// Create performs the actual provider call.
	Create call.CreateFn

	// PromptTemplate is the template source this call was rendered
	// from, kept for trace attributes.
	PromptTemplate string

	// Messages is the rendered request message list in wire shape.
	Messages []map[string]any

	// ToolTypes are the advertised tools, kept for resolving the
	// model's tool calls against.
	ToolTypes []tool.Definition

	// Kwargs is the frozen request keyword set.
	Kwargs call.Kwargs

	// TextField is where this provider's wire shape keeps message text.
	TextField call.TextField

	_ struct{}
}

func (inv *Invocation) requireMode(want call.ExecMode) error {
	if inv.Mode != want {
		return call.Configf("invocation was set up for %s, not %s", inv.Mode, want)
	}
	return nil
}

// Invoke performs the call and blocks for the complete response.
// Valid only in sync mode.
func (inv *Invocation) Invoke(ctx context.Context) (call.Response, error) {
	if err := inv.requireMode(call.ModeSync); err != nil {
		return nil, err
	}
	return inv.Create.Invoke(ctx)
}

// InvokeAsync performs the call on a goroutine and returns a future for
// the result. Valid only in async mode.
func (inv *Invocation) InvokeAsync(ctx context.Context) (call.Future[call.Response], error) {
	if err := inv.requireMode(call.ModeAsync); err != nil {
		return nil, err
	}

	fut := call.NewFuture[call.Response]()
	go func() {
		resp, err := inv.Create.Invoke(ctx)
		if err != nil {
			fut.Fail(err)
			return
		}
		fut.Complete(resp)
	}()
	return fut, nil
}

// Stream opens the call as a pull-based chunk stream. Valid only in
// sync-streaming mode.
func (inv *Invocation) Stream(ctx context.Context) (*call.Stream, error) {
	if err := inv.requireMode(call.ModeSyncStreaming); err != nil {
		return nil, err
	}

	source, err := inv.Create.Stream(ctx)
	if err != nil {
		return nil, err
	}
	return call.NewStream(source, inv.TextField), nil
}

// StreamAsync opens the call and pushes its events into the returned
// channel from a goroutine. The channel carries a start delimiter, one
// Chunk per fragment, a final Response (or an Error), an end delimiter,
// and is then closed. Valid only in async-streaming mode.
func (inv *Invocation) StreamAsync(ctx context.Context) (<-chan StreamEvent, error) {
	if err := inv.requireMode(call.ModeAsyncStreaming); err != nil {
		return nil, err
	}

	source, err := inv.Create.Stream(ctx)
	if err != nil {
		return nil, err
	}

	callID := uuidx.New()
	stream := call.NewStream(source, inv.TextField)
	events := make(chan StreamEvent, 10)

	go func() {
		defer close(events)

		pump(ctx, events, Delim{CallID: callID, Delim: "start"})
		defer pump(ctx, events, Delim{CallID: callID, Delim: "end"})

		for chunk, err := range stream.Iter() {
			if err != nil {
				pump(ctx, events, Error{
					CallID:    callID,
					Err:       err,
					Timestamp: strfmt.DateTime(time.Now()),
				})
				return
			}
			if chunk.Content() == "" {
				continue
			}
			pump(ctx, events, Chunk{
				CallID:    callID,
				Content:   chunk.Content(),
				Timestamp: strfmt.DateTime(time.Now()),
			})
		}

		resp := Response{
			CallID:        callID,
			Content:       stream.Content(),
			Model:         stream.Model(),
			ID:            stream.ID(),
			FinishReasons: stream.FinishReasons(),
			InputTokens:   stream.Usage().InputTokens,
			OutputTokens:  stream.Usage().OutputTokens,
			Timestamp:     strfmt.DateTime(time.Now()),
		}
		if cost, ok := stream.Cost(); ok {
			resp.Cost = &cost
		}
		pump(ctx, events, resp)
	}()

	return events, nil
}

func pump(ctx context.Context, events chan<- StreamEvent, ev StreamEvent) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

