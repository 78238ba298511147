// Package llmjson recovers a single JSON object from free-form language-model
// output. Model text routinely wraps the payload in prose, markdown fences or
// half-finished commentary; the extractor walks an ordered chain of recovery
// strategies and returns the first span that parses.
package llmjson

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// UnparseableError reports that no strategy recovered a valid JSON object.
// Preview carries a truncated copy of the raw input for diagnostics.
type UnparseableError struct {
	Preview string
}

func (e *UnparseableError) Error() string {
	return fmt.Sprintf("no valid JSON object found in model output: %q", e.Preview)
}

const previewLimit = 200

var (
	openFencePattern  = regexp.MustCompile("(?m)^```json[ \t]*")
	closeFencePattern = regexp.MustCompile("(?m)^```[ \t]*$")

	// Greedy brace spans; the first is confined to one line, the second may
	// cross lines.
	candidatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\{.*\}`),
		regexp.MustCompile(`(?s)\{.*\}`),
	}

	// Cleaning transforms for decorated output, applied in order after the
	// direct strategies fail.
	cleaningPatterns = []struct {
		pattern *regexp.Regexp
		replace string
	}{
		{regexp.MustCompile(`(?s)^.*?(\{.*\}).*?$`), "$1"},
		{regexp.MustCompile(`(?s)^[^{]*(\{.*\})[^}]*$`), "$1"},
		{regexp.MustCompile(`(?si)Here's the JSON:?\s*(\{.*\})`), "$1"},
		{regexp.MustCompile("(?s)```json\\s*(\\{.*\\})\\s*```"), "$1"},
		{regexp.MustCompile(`(?si)^.*?JSON.*?:?\s*(\{.*\})`), "$1"},
	}
)

// Extract locates exactly one valid JSON object inside raw and returns it
// verbatim. It never panics on arbitrary input and never returns a partial
// parse: either the result is a complete valid object or the error is an
// *UnparseableError. Schema validation is the caller's job.
func Extract(raw string) (json.RawMessage, error) {
	text := stripFences(raw)

	// First { ... last }.
	if first, last := strings.Index(text, "{"), strings.LastIndex(text, "}"); first != -1 && first < last {
		if span := text[first : last+1]; isObject(span) {
			return json.RawMessage(span), nil
		}
	}

	// Greedy regex candidates.
	for _, pattern := range candidatePatterns {
		for _, span := range pattern.FindAllString(text, -1) {
			if isObject(span) {
				return json.RawMessage(span), nil
			}
		}
	}

	// Cleaning transforms, re-parsing after each.
	for _, c := range cleaningPatterns {
		cleaned := strings.TrimSpace(c.pattern.ReplaceAllString(text, c.replace))
		if isObject(cleaned) {
			return json.RawMessage(cleaned), nil
		}
	}

	// Brace-depth scan for the first balanced object, string-aware so braces
	// inside JSON string literals do not skew the depth.
	if span, ok := scanBalanced(text); ok {
		return json.RawMessage(span), nil
	}

	return nil, &UnparseableError{Preview: preview(raw)}
}

// Unmarshal extracts the embedded JSON object and decodes it into v.
func Unmarshal(raw string, v any) error {
	data, err := Extract(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	text = openFencePattern.ReplaceAllString(text, "")
	text = closeFencePattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// isObject reports whether s is, in its entirety, a valid JSON object.
func isObject(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return false
	}
	return json.Valid([]byte(s))
}

// scanBalanced walks the text tracking brace depth and tries to parse each
// span that returns to depth zero. Quotes and escapes are honored so that
// braces embedded in string values are not counted.
func scanBalanced(text string) (string, bool) {
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start != -1 {
				if span := text[start : i+1]; isObject(span) {
					return span, true
				}
			}
		}
	}
	return "", false
}

func preview(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) <= previewLimit {
		return trimmed
	}
	return trimmed[:previewLimit] + "..."
}
