// Package tool turns plain Go functions into model-callable tools.
//
// A Definition wraps a function with a name, description and parameter
// names, and can reflect itself into the JSON schema providers expect.
// Resolve matches a model-emitted tool call against a definition set,
// validates the arguments against the schema, and binds them for
// invocation.
package tool
