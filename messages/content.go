package messages

import (
	"encoding/base64"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var jsonNull = []byte(`null`)

// ContentPart is the sealed union of user-content parts.
type ContentPart interface {
	contentPart()
}

// AssistantContentPart is the sealed union of assistant-content parts.
type AssistantContentPart interface {
	assistantContentPart()
}

// TextContentPart is a plain text fragment. It is valid in both user and
// assistant content.
type TextContentPart struct {
	Text string `json:"text"`
	_    struct{}
}

func (TextContentPart) contentPart()          {}
func (TextContentPart) assistantContentPart() {}

func Text(text string) TextContentPart {
	return TextContentPart{Text: text}
}

// ImageContentPart references an image by URL with an optional detail hint.
type ImageContentPart struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
	_      struct{}
}

func (ImageContentPart) contentPart() {}

func Image(url string) ImageContentPart {
	return ImageContentPart{URL: url}
}

// AudioContentPart carries inline audio input.
type AudioContentPart struct {
	InputAudio InputAudio `json:"input_audio"`
	_          struct{}
}

func (AudioContentPart) contentPart() {}

type InputAudio struct {
	Data   []byte `json:"data"`
	Format string `json:"format"`
	_      struct{}
}

// RefusalContentPart carries an assistant refusal fragment.
type RefusalContentPart struct {
	Refusal string `json:"refusal"`
	_       struct{}
}

func (RefusalContentPart) assistantContentPart() {}

func Refusal(refusal string) RefusalContentPart {
	return RefusalContentPart{Refusal: refusal}
}

// ContentOrParts is either a simple string or a list of typed parts.
// It serializes as a JSON string when Content is set, as an array of
// discriminated part objects otherwise, and as null when both are empty.
type ContentOrParts struct {
	Content string
	Parts   []ContentPart
	_       struct{}
}

func (c ContentOrParts) MarshalJSON() ([]byte, error) {
	if strings.TrimSpace(c.Content) != "" {
		return json.Marshal(c.Content)
	}
	if c.Parts == nil {
		return jsonNull, nil
	}
	out := []byte(`[]`)
	for _, part := range c.Parts {
		pj, err := marshalPart(part)
		if err != nil {
			return nil, err
		}
		out, err = sjson.SetRawBytes(out, "-1", pj)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *ContentOrParts) UnmarshalJSON(input []byte) error {
	if !gjson.ValidBytes(input) {
		return fmt.Errorf("invalid json: %s", input)
	}
	jv := gjson.ParseBytes(input)
	if jv.Type == gjson.Null {
		return nil
	}
	if !jv.IsArray() {
		c.Content = jv.String()
		return nil
	}

	aj := jv.Array()
	parts := make([]ContentPart, len(aj))
	for idx, ajv := range aj {
		switch tpe := ajv.Get("type").String(); tpe {
		case "text":
			parts[idx] = TextContentPart{Text: ajv.Get("text").String()}
		case "image":
			parts[idx] = ImageContentPart{
				URL:    ajv.Get("image_url.url").String(),
				Detail: ajv.Get("image_url.detail").String(),
			}
		case "audio":
			data, err := base64.StdEncoding.DecodeString(ajv.Get("input_audio.data").String())
			if err != nil {
				return fmt.Errorf("invalid audio part at %d: %w", idx, err)
			}
			parts[idx] = AudioContentPart{InputAudio: InputAudio{
				Data:   data,
				Format: ajv.Get("input_audio.format").String(),
			}}
		default:
			return fmt.Errorf("content part at %d has an unknown type %q", idx, tpe)
		}
	}
	c.Parts = parts
	return nil
}

// AssistantContentOrParts is the assistant-side analogue of ContentOrParts,
// with an additional top-level refusal.
type AssistantContentOrParts struct {
	Content string
	Parts   []AssistantContentPart
	Refusal string
	_       struct{}
}

func (c AssistantContentOrParts) MarshalJSON() ([]byte, error) {
	if strings.TrimSpace(c.Content) != "" && strings.TrimSpace(c.Refusal) != "" {
		return nil, fmt.Errorf("both Content and Refusal are set")
	}
	if strings.TrimSpace(c.Content) != "" {
		return json.Marshal(c.Content)
	}
	if strings.TrimSpace(c.Refusal) != "" {
		result, err := sjson.SetBytes([]byte(`{}`), "refusal", c.Refusal)
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	if c.Parts == nil {
		return jsonNull, nil
	}
	out := []byte(`[]`)
	for _, part := range c.Parts {
		pj, err := marshalAssistantPart(part)
		if err != nil {
			return nil, err
		}
		out, err = sjson.SetRawBytes(out, "-1", pj)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *AssistantContentOrParts) UnmarshalJSON(input []byte) error {
	if !gjson.ValidBytes(input) {
		return fmt.Errorf("invalid json: %s", input)
	}
	jv := gjson.ParseBytes(input)
	switch {
	case jv.Type == gjson.Null:
		return nil
	case jv.IsObject():
		c.Refusal = jv.Get("refusal").String()
		return nil
	case jv.IsArray():
		aj := jv.Array()
		parts := make([]AssistantContentPart, len(aj))
		for idx, ajv := range aj {
			switch tpe := ajv.Get("type").String(); tpe {
			case "text":
				parts[idx] = TextContentPart{Text: ajv.Get("text").String()}
			case "refusal":
				parts[idx] = RefusalContentPart{Refusal: ajv.Get("refusal").String()}
			default:
				return fmt.Errorf("assistant content part at %d has an unknown type %q", idx, tpe)
			}
		}
		c.Parts = parts
		return nil
	default:
		c.Content = jv.String()
		return nil
	}
}

func marshalPart(part ContentPart) ([]byte, error) {
	switch p := part.(type) {
	case TextContentPart:
		result, err := sjson.SetBytes([]byte(`{"type":"text"}`), "text", p.Text)
		return result, err
	case ImageContentPart:
		result, err := sjson.SetBytes([]byte(`{"type":"image"}`), "image_url.url", p.URL)
		if err != nil {
			return nil, err
		}
		if p.Detail != "" {
			result, err = sjson.SetBytes(result, "image_url.detail", p.Detail)
		}
		return result, err
	case AudioContentPart:
		result, err := sjson.SetBytes([]byte(`{"type":"audio"}`), "input_audio.data", base64.StdEncoding.EncodeToString(p.InputAudio.Data))
		if err != nil {
			return nil, err
		}
		return sjson.SetBytes(result, "input_audio.format", p.InputAudio.Format)
	default:
		return nil, fmt.Errorf("unknown content part type %T", part)
	}
}

func marshalAssistantPart(part AssistantContentPart) ([]byte, error) {
	switch p := part.(type) {
	case TextContentPart:
		return sjson.SetBytes([]byte(`{"type":"text"}`), "text", p.Text)
	case RefusalContentPart:
		return sjson.SetBytes([]byte(`{"type":"refusal"}`), "refusal", p.Refusal)
	default:
		return nil, fmt.Errorf("unknown assistant content part type %T", part)
	}
}
