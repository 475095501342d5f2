package provider

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestDelim_MarshalJSON(t *testing.T) {
	callID := uuid.New()
	delim := Delim{
		CallID: callID,
		Delim:  "start",
	}

	data, err := json.Marshal(delim)
	assert.NoError(t, err)

	assert.True(t, gjson.ValidBytes(data))
	result := gjson.ParseBytes(data)
	assert.Equal(t, "delim", result.Get("type").String())
	assert.Equal(t, callID.String(), result.Get("call_id").String())
	assert.Equal(t, "start", result.Get("delim").String())
}

func TestDelim_UnmarshalJSON(t *testing.T) {
	callID := uuid.New()
	jsonData := []byte(`{
    "type": "delim",
    "call_id": "` + callID.String() + `",
    "delim": "end"
  }`)

	var delim Delim
	err := json.Unmarshal(jsonData, &delim)
	assert.NoError(t, err)
	assert.Equal(t, callID, delim.CallID)
	assert.Equal(t, "end", delim.Delim)
}

func TestChunk_MarshalJSON(t *testing.T) {
	callID := uuid.New()
	timestamp := strfmt.DateTime(time.Now().UTC().Truncate(time.Millisecond))
	chunk := Chunk{
		CallID:    callID,
		Content:   "Once upon ",
		Timestamp: timestamp,
	}

	data, err := json.Marshal(chunk)
	assert.NoError(t, err)

	result := gjson.ParseBytes(data)
	assert.Equal(t, "chunk", result.Get("type").String())
	assert.Equal(t, callID.String(), result.Get("call_id").String())
	assert.Equal(t, "Once upon ", result.Get("content").String())
	assert.Equal(t, timestamp.String(), result.Get("timestamp").String())
}

func TestChunk_UnmarshalJSON(t *testing.T) {
	callID := uuid.New()
	jsonData := []byte(`{
    "type": "chunk",
    "call_id": "` + callID.String() + `",
    "content": "a time",
    "meta": {"trace": "abc"}
  }`)

	var chunk Chunk
	err := json.Unmarshal(jsonData, &chunk)
	assert.NoError(t, err)
	assert.Equal(t, callID, chunk.CallID)
	assert.Equal(t, "a time", chunk.Content)
	assert.Equal(t, "abc", chunk.Meta.Get("trace").String())
}

func TestChunk_UnmarshalJSON_WrongType(t *testing.T) {
	var chunk Chunk
	err := json.Unmarshal([]byte(`{"type":"delim","call_id":"x"}`), &chunk)
	assert.Error(t, err)
}

func TestResponse_RoundTrip(t *testing.T) {
	callID := uuid.New()
	cost := 0.002
	resp := Response{
		CallID:        callID,
		Content:       "Once upon a time",
		Model:         "gpt-4o-mini",
		ID:            "chatcmpl-123",
		FinishReasons: []string{"stop"},
		InputTokens:   12,
		OutputTokens:  7,
		Cost:          &cost,
	}

	data, err := json.Marshal(resp)
	assert.NoError(t, err)

	result := gjson.ParseBytes(data)
	assert.Equal(t, "response", result.Get("type").String())
	assert.Equal(t, "Once upon a time", result.Get("content").String())
	assert.Equal(t, int64(12), result.Get("input_tokens").Int())

	var decoded Response
	err = json.Unmarshal(data, &decoded)
	assert.NoError(t, err)
	assert.Equal(t, callID, decoded.CallID)
	assert.Equal(t, resp.Content, decoded.Content)
	assert.Equal(t, resp.Model, decoded.Model)
	assert.Equal(t, resp.FinishReasons, decoded.FinishReasons)
	assert.Equal(t, resp.InputTokens, decoded.InputTokens)
	assert.Equal(t, resp.OutputTokens, decoded.OutputTokens)
	if assert.NotNil(t, decoded.Cost) {
		assert.InDelta(t, cost, *decoded.Cost, 1e-9)
	}
}

func TestError_RoundTrip(t *testing.T) {
	callID := uuid.New()
	evt := Error{
		CallID: callID,
		Err:    errors.New("connection reset"),
	}

	data, err := json.Marshal(evt)
	assert.NoError(t, err)

	var decoded Error
	err = json.Unmarshal(data, &decoded)
	assert.NoError(t, err)
	assert.Equal(t, callID, decoded.CallID)
	assert.EqualError(t, decoded.Err, "connection reset")
	assert.Contains(t, decoded.Error(), "connection reset")
}

func TestError_UnmarshalJSON_MissingError(t *testing.T) {
	callID := uuid.New()
	jsonData := []byte(`{"type":"error","call_id":"` + callID.String() + `"}`)

	var decoded Error
	err := json.Unmarshal(jsonData, &decoded)
	assert.Error(t, err)
}
