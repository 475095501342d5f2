// Package messages defines the provider-neutral message model shared by
// every provider integration.
//
// A conversation is a sequence of Message envelopes, each carrying one of
// the sealed payload types: InstructionsMessage, UserMessage,
// AssistantMessage, ToolCallMessage or ToolResponse. Payloads are sealed
// through unexported marker methods so the set of message kinds is closed
// at compile time; provider packages switch over the payload to produce
// their SDK-native parameters.
//
// Content can be a plain string or a list of typed parts (text, image,
// audio for user input; text and refusal for assistant output). Messages
// are immutable once constructed and owned by the thread they were added
// to.
package messages
