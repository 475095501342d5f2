package call

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigError(t *testing.T) {
	err := Configf("model %q not registered", "gpt-oops")
	var cfg *ConfigError
	require.ErrorAs(t, err, &cfg)
	assert.Contains(t, err.Error(), "gpt-oops")
}

func TestSchemaErrorUnwraps(t *testing.T) {
	cause := errors.New("property count is not a number")
	err := &SchemaError{Subject: "format_book", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "format_book")
}

func TestNoMatchingToolIsRecoverable(t *testing.T) {
	err := fmt.Errorf("resolve %q: %w", "C", ErrNoMatchingTool)
	assert.ErrorIs(t, err, ErrNoMatchingTool)
}

func TestFutureResolvesOnce(t *testing.T) {
	f := NewFuture[string]()
	go func() {
		f.Complete("done")
		f.Complete("ignored")
		f.Fail(errors.New("ignored too"))
	}()

	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, "done", v)

	// repeated gets observe the cached outcome
	v, err = f.Get()
	require.NoError(t, err)
	assert.Equal(t, "done", v)
}

func TestFutureFailure(t *testing.T) {
	f := NewFuture[int]()
	f.Fail(assert.AnError)

	v, err := f.Get()
	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, v)
}

func TestExecModePredicates(t *testing.T) {
	assert.False(t, ModeSync.Streaming())
	assert.False(t, ModeSync.Async())
	assert.True(t, ModeAsync.Async())
	assert.True(t, ModeSyncStreaming.Streaming())
	assert.True(t, ModeAsyncStreaming.Streaming())
	assert.True(t, ModeAsyncStreaming.Async())
	assert.Equal(t, "sync-streaming", ModeSyncStreaming.String())
}
