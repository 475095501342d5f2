package facet

import (
	"context"

	"github.com/fogfish/opts"

	"github.com/calder/facet/call"
	"github.com/calder/facet/provider"
	"github.com/calder/facet/thread"
	"github.com/calder/facet/tool"
)

// Generator is one configured model call: a model, a prompt template
// and the request shape around it. Construction is side-effect free;
// every execution method assembles the request through the model's
// provider and then performs exactly one call in the matching mode.
type Generator struct {
	model        provider.Model
	promptTmpl   string
	instructions string
	fn           call.PromptFn
	tools        []tool.Definition
	params       *call.Params
	jsonMode     bool
	thread       *thread.Thread
	output       *provider.StructuredOutput
}

var (
	// Model selects the backend and model for this generator.
	Model = opts.ForName[Generator, provider.Model]("model")

	// Prompt sets the prompt template. SYSTEM:/USER:/ASSISTANT: markers
	// split the template into role sections; {name} placeholders are
	// filled from the invocation arguments.
	Prompt = opts.ForName[Generator, string]("promptTmpl")

	// Instructions sets the system message used when the template has no
	// SYSTEM section of its own.
	Instructions = opts.ForName[Generator, string]("instructions")

	// Fn installs a dynamic-config callback, evaluated at setup time to
	// override messages, tools or call params per invocation.
	Fn = opts.ForName[Generator, call.PromptFn]("fn")

	// JSONMode asks the provider for a JSON object response.
	JSONMode = opts.ForName[Generator, bool]("jsonMode")

	// History attaches a conversation thread whose messages are replayed
	// before the rendered prompt.
	History = opts.ForName[Generator, *thread.Thread]("thread")
)

// Tools declares the functions the model may call. Each value is either
// a tool.Definition or a plain Go function, which is wrapped with a
// schema derived through reflection.
func Tools(fns ...any) opts.Option[Generator] {
	return opts.Type[Generator](func(g *Generator) error {
		for _, fn := range fns {
			switch td := fn.(type) {
			case tool.Definition:
				g.tools = append(g.tools, td)
			case *tool.Definition:
				g.tools = append(g.tools, *td)
			default:
				def, err := tool.New(fn)
				if err != nil {
					return err
				}
				g.tools = append(g.tools, def)
			}
		}
		return nil
	})
}

// Params sets the sampling parameters sent with every call.
func Params(options ...opts.Option[call.Params]) opts.Option[Generator] {
	return opts.Type[Generator](func(g *Generator) error {
		p, err := call.NewParams(options...)
		if err != nil {
			return err
		}
		g.params = p
		return nil
	})
}

// New builds a generator. Option errors surface as configuration
// errors; nothing touches the network.
func New(options ...opts.Option[Generator]) (*Generator, error) {
	g := &Generator{}
	if err := opts.Apply(g, options); err != nil {
		return nil, call.Configf("generator options: %v", err)
	}
	return g, nil
}

func (g *Generator) setup(ctx context.Context, mode call.ExecMode, args call.Args) (*provider.Invocation, error) {
	if g.model == nil {
		return nil, call.Configf("no model configured")
	}
	return g.model.Provider().Setup(ctx, provider.SetupParams{
		Model:          g.model,
		Mode:           mode,
		Instructions:   g.instructions,
		PromptTemplate: g.promptTmpl,
		Fn:             g.fn,
		FnArgs:         args,
		Thread:         g.thread,
		Tools:          g.tools,
		JSONMode:       g.jsonMode,
		Output:         g.output,
		CallParams:     g.params,
	})
}

// Invoke performs one synchronous call and returns the normalized
// response.
func (g *Generator) Invoke(ctx context.Context, args call.Args) (call.Response, error) {
	inv, err := g.setup(ctx, call.ModeSync, args)
	if err != nil {
		return nil, err
	}
	return inv.Invoke(ctx)
}

// InvokeAsync performs one call on its own goroutine and returns a
// future resolving to the normalized response.
func (g *Generator) InvokeAsync(ctx context.Context, args call.Args) (call.Future[call.Response], error) {
	inv, err := g.setup(ctx, call.ModeAsync, args)
	if err != nil {
		return nil, err
	}
	return inv.InvokeAsync(ctx)
}

// Stream performs one streaming call. The returned stream accumulates
// state as it is iterated and reports Done only after clean exhaustion.
func (g *Generator) Stream(ctx context.Context, args call.Args) (*call.Stream, error) {
	inv, err := g.setup(ctx, call.ModeSyncStreaming, args)
	if err != nil {
		return nil, err
	}
	return inv.Stream(ctx)
}

// StreamAsync performs one streaming call pumped through an event
// channel: a start delimiter, content chunks, the final accumulated
// response, and an end delimiter.
func (g *Generator) StreamAsync(ctx context.Context, args call.Args) (<-chan provider.StreamEvent, error) {
	inv, err := g.setup(ctx, call.ModeAsyncStreaming, args)
	if err != nil {
		return nil, err
	}
	return inv.StreamAsync(ctx)
}
