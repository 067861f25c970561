package services

import (
	"encoding/json"
	"errors"
)

var errNoJSONSpan = errors.New("no parseable JSON span found")

// ExtractJSONObject returns the first balanced {...} span of text that is valid JSON.
// Model output may wrap the object in prose or code fences; braces inside JSON string
// literals (explanations, code examples) do not affect balancing.
func ExtractJSONObject(text string) (json.RawMessage, error) {
	return extractJSONSpan(text, '{', '}')
}

// ExtractJSONArray returns the first balanced [...] span of text that is valid JSON
func ExtractJSONArray(text string) (json.RawMessage, error) {
	return extractJSONSpan(text, '[', ']')
}

func extractJSONSpan(text string, open, close byte) (json.RawMessage, error) {
	for start := 0; start < len(text); start++ {
		if text[start] != open {
			continue
		}
		end := matchingClose(text, start, open, close)
		if end < 0 {
			continue
		}
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}
	return nil, errNoJSONSpan
}

// matchingClose returns the index of the delimiter closing text[start], or -1 if unbalanced
func matchingClose(text string, start int, open, close byte) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
