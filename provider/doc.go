// Package provider defines the abstraction layer over AI model backends
// (OpenAI, Anthropic, Groq, Mistral, ollama) so the rest of the library
// can treat them uniformly.
//
// Design decisions:
//   - One flat interface per backend: a Provider sets up calls, nothing
//     more. There is no base implementation to inherit from; shared
//     behavior lives in free functions providers call during setup.
//   - Setup is pure assembly: Setup renders the prompt, converts tools,
//     and freezes the request kwargs without touching the network. I/O
//     happens only when the returned Invocation is executed.
//   - The execution mode is chosen once, at setup, and the Invocation
//     enforces it: calling a sync method on a streaming invocation is a
//     configuration error, not a silent fallback.
//   - Streaming push delivery uses four event types (Delim, Chunk,
//     Response, Error) sent over a channel, mirroring the pull-based
//     chunk sequence.
//
// A typical exchange:
//
//	inv, err := prov.Setup(ctx, provider.SetupParams{
//	    Model:          model,
//	    Mode:           call.ModeSync,
//	    PromptTemplate: "Recommend a {genre} book",
//	    FnArgs:         call.Args{"genre": "fantasy"},
//	})
//	if err != nil {
//	    return err
//	}
//	resp, err := inv.Invoke(ctx)
package provider
