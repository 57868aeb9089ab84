// Package jsonx recovers JSON payloads from unstructured LLM replies.
package jsonx

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Extract pulls the most plausible JSON payload out of a model reply.
// The fallback order is fixed and documented: a ```json fenced block, then
// any ``` fenced block, then the outermost {...} span, then the raw text.
func Extract(raw string) string {
	raw = strings.TrimSpace(raw)

	if body, ok := fencedBlock(raw, "```json"); ok {
		return body
	}
	if body, ok := fencedBlock(raw, "```"); ok {
		return body
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}

	return raw
}

// Decode extracts and unmarshals into v, reporting which step failed.
func Decode(raw string, v any) error {
	payload := Extract(raw)
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("parse extracted json: %w", err)
	}
	return nil
}

func fencedBlock(raw, opener string) (string, bool) {
	start := strings.Index(raw, opener)
	if start < 0 {
		return "", false
	}
	rest := raw[start+len(opener):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}
