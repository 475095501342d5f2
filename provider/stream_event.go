package provider

import (
	"errors"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	delimJSON    = []byte(`{"type":"delim"}`)
	chunkJSON    = []byte(`{"type":"chunk"}`)
	responseJSON = []byte(`{"type":"response"}`)
	errorJSON    = []byte(`{"type":"error"}`)
)

// StreamEvent is the sealed union of events a push-mode stream emits.
// Consumers switch on the concrete type: Delim marks stream boundaries,
// Chunk carries one content fragment, Response closes the stream with
// the accumulated result, Error ends it with a failure.
type StreamEvent interface {
	streamEvent()
}

// Delim marks the start and end of one streamed call.
type Delim struct {
	CallID uuid.UUID `json:"call_id"`
	Delim  string    `json:"delim"`
}

func (Delim) streamEvent() {}

// Chunk is one incremental fragment of a streamed response.
type Chunk struct {
	CallID    uuid.UUID       `json:"call_id"`
	Content   string          `json:"content"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

func (Chunk) streamEvent() {}

// Response carries the fully accumulated result of a streamed call.
type Response struct {
	CallID        uuid.UUID       `json:"call_id"`
	Content       string          `json:"content"`
	Model         string          `json:"model"`
	ID            string          `json:"id"`
	FinishReasons []string        `json:"finish_reasons,omitempty"`
	InputTokens   int64           `json:"input_tokens"`
	OutputTokens  int64           `json:"output_tokens"`
	Cost          *float64        `json:"cost,omitempty"`
	Timestamp     strfmt.DateTime `json:"timestamp,omitempty"`
	Meta          gjson.Result    `json:"meta,omitempty"`
}

func (Response) streamEvent() {}

// Error ends a streamed call with the failure that interrupted it.
type Error struct {
	CallID    uuid.UUID       `json:"call_id"`
	Err       error           `json:"error"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
	Meta      gjson.Result    `json:"meta,omitempty"`
}

func (Error) streamEvent() {}

func (e Error) Error() string {
	return fmt.Sprintf("call_id: %s, timestamp: %s, error: %v", e.CallID, e.Timestamp, e.Err)
}

// MarshalJSON implements custom JSON marshaling for Delim
func (d Delim) MarshalJSON() ([]byte, error) {
	result := delimJSON

	var err error
	result, err = sjson.SetBytes(result, "call_id", d.CallID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "delim", d.Delim)
	return result, err
}

// UnmarshalJSON implements custom JSON unmarshaling for Delim
func (d *Delim) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	if err := checkEventType(data, "delim"); err != nil {
		return err
	}

	if err := readCallID(data, &d.CallID); err != nil {
		return err
	}

	delim := gjson.GetBytes(data, "delim")
	if !delim.Exists() {
		return fmt.Errorf("missing required field 'delim'")
	}
	d.Delim = delim.String()

	return nil
}

// MarshalJSON implements custom JSON marshaling for Chunk
func (c Chunk) MarshalJSON() ([]byte, error) {
	result := chunkJSON

	var err error
	result, err = sjson.SetBytes(result, "call_id", c.CallID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "content", c.Content)
	if err != nil {
		return nil, err
	}

	return writeEnvelope(result, c.Timestamp, c.Meta)
}

// UnmarshalJSON implements custom JSON unmarshaling for Chunk
func (c *Chunk) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	if err := checkEventType(data, "chunk"); err != nil {
		return err
	}

	if err := readCallID(data, &c.CallID); err != nil {
		return err
	}

	content := gjson.GetBytes(data, "content")
	if !content.Exists() {
		return fmt.Errorf("missing required field 'content'")
	}
	c.Content = content.String()

	return readEnvelope(data, &c.Timestamp, &c.Meta)
}

// MarshalJSON implements custom JSON marshaling for Response
func (r Response) MarshalJSON() ([]byte, error) {
	result := responseJSON

	var err error
	result, err = sjson.SetBytes(result, "call_id", r.CallID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "content", r.Content)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "model", r.Model)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "id", r.ID)
	if err != nil {
		return nil, err
	}

	if len(r.FinishReasons) > 0 {
		result, err = sjson.SetBytes(result, "finish_reasons", r.FinishReasons)
		if err != nil {
			return nil, err
		}
	}

	result, err = sjson.SetBytes(result, "input_tokens", r.InputTokens)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "output_tokens", r.OutputTokens)
	if err != nil {
		return nil, err
	}

	if r.Cost != nil {
		result, err = sjson.SetBytes(result, "cost", *r.Cost)
		if err != nil {
			return nil, err
		}
	}

	return writeEnvelope(result, r.Timestamp, r.Meta)
}

// UnmarshalJSON implements custom JSON unmarshaling for Response
func (r *Response) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	if err := checkEventType(data, "response"); err != nil {
		return err
	}

	if err := readCallID(data, &r.CallID); err != nil {
		return err
	}

	r.Content = gjson.GetBytes(data, "content").String()
	r.Model = gjson.GetBytes(data, "model").String()
	r.ID = gjson.GetBytes(data, "id").String()
	r.InputTokens = gjson.GetBytes(data, "input_tokens").Int()
	r.OutputTokens = gjson.GetBytes(data, "output_tokens").Int()

	if fr := gjson.GetBytes(data, "finish_reasons"); fr.Exists() {
		for _, v := range fr.Array() {
			r.FinishReasons = append(r.FinishReasons, v.String())
		}
	}

	if cost := gjson.GetBytes(data, "cost"); cost.Exists() {
		v := cost.Float()
		r.Cost = &v
	}

	return readEnvelope(data, &r.Timestamp, &r.Meta)
}

// MarshalJSON implements custom JSON marshaling for Error
func (e Error) MarshalJSON() ([]byte, error) {
	result := errorJSON

	var err error
	result, err = sjson.SetBytes(result, "call_id", e.CallID.String())
	if err != nil {
		return nil, err
	}

	if e.Err != nil {
		result, err = sjson.SetBytes(result, "error", e.Err.Error())
		if err != nil {
			return nil, err
		}
	}

	return writeEnvelope(result, e.Timestamp, e.Meta)
}

// UnmarshalJSON implements custom JSON unmarshaling for Error
func (e *Error) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	if err := checkEventType(data, "error"); err != nil {
		return err
	}

	if err := readCallID(data, &e.CallID); err != nil {
		return err
	}

	errMsg := gjson.GetBytes(data, "error")
	if !errMsg.Exists() {
		return errors.New("missing required field 'error'")
	}
	e.Err = errors.New(errMsg.String())

	return readEnvelope(data, &e.Timestamp, &e.Meta)
}

func checkEventType(data []byte, want string) error {
	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != want {
		return fmt.Errorf("missing or invalid type, expected %q", want)
	}
	return nil
}

func readCallID(data []byte, id *uuid.UUID) error {
	callID := gjson.GetBytes(data, "call_id")
	if !callID.Exists() {
		return fmt.Errorf("missing required field 'call_id'")
	}
	if err := id.UnmarshalText([]byte(callID.String())); err != nil {
		return fmt.Errorf("invalid call_id: %w", err)
	}
	return nil
}

func writeEnvelope(result []byte, ts strfmt.DateTime, meta gjson.Result) ([]byte, error) {
	var err error
	if !ts.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", ts.String())
		if err != nil {
			return nil, err
		}
	}

	if meta.Exists() {
		result, err = sjson.SetRawBytes(result, "meta", []byte(meta.Raw))
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func readEnvelope(data []byte, ts *strfmt.DateTime, meta *gjson.Result) error {
	if timestamp := gjson.GetBytes(data, "timestamp"); timestamp.Exists() {
		if err := ts.UnmarshalText([]byte(timestamp.String())); err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
	}

	if m := gjson.GetBytes(data, "meta"); m.Exists() {
		*meta = m
	}

	return nil
}
