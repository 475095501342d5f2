// Package facet is a provider-agnostic layer over LLM chat APIs. One
// configured Generator targets any supported backend by swapping the
// model value; prompt templating, tool schemas, structured output and
// response normalization stay identical across providers.
//
// Configure once, then execute in the mode the generator was built for:
//
//	gen, err := facet.New(
//		facet.Model(openai.GPT4oMini()),
//		facet.Prompt("Recommend a {genre} book"),
//	)
//	if err != nil {
//		// handle configuration error
//	}
//	resp, err := gen.Invoke(ctx, call.Args{"genre": "fantasy"})
//
// Tools are plain Go functions; their JSON schemas are derived through
// reflection:
//
//	gen, err := facet.New(
//		facet.Model(anthropic.Claude35Haiku()),
//		facet.Prompt("What is the weather in {city}?"),
//		facet.Tools(getWeather),
//	)
//
// Structured output decodes the model's reply into a Go value:
//
//	ex, err := facet.NewExtractor[Book]("book", "a book recommendation",
//		facet.Model(openai.GPT4oMini()),
//		facet.Prompt("Recommend a {genre} book"),
//	)
//	book, _, err := ex.Extract(ctx, call.Args{"genre": "fantasy"})
//
// Network I/O never happens during configuration or setup; the first
// request leaves the process when Invoke, Stream or one of their async
// variants runs.
package facet
