// Package call defines the provider-agnostic core of facet: the
// normalized Response and Chunk views over raw SDK values, the Stream
// accumulator that assembles a final assistant message from chunks, the
// explicit execution-mode union with its CreateFn calling convention,
// and the resolved Kwargs payload record.
//
// Nothing in this package performs network I/O. Provider packages adapt
// their SDK types onto these contracts; transport errors pass through
// from the SDKs untouched.
package call
