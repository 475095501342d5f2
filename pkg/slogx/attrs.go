// Package slogx carries small helpers for structured logging attributes.
package slogx

import (
	"fmt"
	"log/slog"
)

// Error returns a slog.Attr with key "error" and the error's message.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// Stringer returns a slog.Attr holding the string form of value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// Provider returns the attribute identifying which model provider a log
// line refers to.
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

// Model returns the attribute identifying the model a call targets.
func Model(name string) slog.Attr {
	return slog.String("model", name)
}
