package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedReply is returned when the model's text is not a usable reply object.
var ErrMalformedReply = errors.New("malformed model reply")

// ResponseValidator parses the model's raw text into the reply object.
type ResponseValidator struct{}

// NewResponseValidator 新しいResponseValidatorを作成
func NewResponseValidator() *ResponseValidator {
	return &ResponseValidator{}
}

// Validate returns the parsed object unchanged when it carries a string "bot_response"
// and, if present, an object "chart". Numbers keep their original text.
func (v *ResponseValidator) Validate(raw string) (map[string]any, error) {
	text := stripCodeFence(raw)

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var reply map[string]any
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrMalformedReply)
	}
	if reply == nil {
		return nil, fmt.Errorf("%w: null reply", ErrMalformedReply)
	}

	if _, ok := reply["bot_response"].(string); !ok {
		return nil, fmt.Errorf("%w: missing string field bot_response", ErrMalformedReply)
	}
	if chart, present := reply["chart"]; present {
		if _, ok := chart.(map[string]any); !ok {
			return nil, fmt.Errorf("%w: chart must be an object", ErrMalformedReply)
		}
	}
	return reply, nil
}

// stripCodeFence markdownのコードブロックを除去
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// 言語タグ（```json など）を読み飛ばす
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
