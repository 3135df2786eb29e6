package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError means the model's answer was not the JSON we asked for
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	raw := e.Raw
	if r := []rune(raw); len(r) > 80 {
		raw = string(r[:80]) + "..."
	}
	return fmt.Sprintf("unparseable model response %q: %v", raw, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StripFences removes markdown code fences the model likes to wrap JSON in
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// decodeJSON strictly decodes raw into T after stripping fences
func decodeJSON[T any](raw string) (T, error) {
	var out T
	clean := StripFences(raw)
	if clean == "" {
		return out, &ParseError{Raw: raw, Err: fmt.Errorf("empty payload")}
	}
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return out, &ParseError{Raw: raw, Err: err}
	}
	return out, nil
}
