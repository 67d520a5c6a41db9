package extraction

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Kind selects which JSON shape ExtractJSON looks for.
type Kind int

const (
	// KindAny accepts whichever of object or array occurs first in the text.
	KindAny Kind = iota
	// KindObject only accepts a JSON object.
	KindObject
	// KindArray only accepts a JSON array.
	KindArray
)

// ExtractionError reports that no parseable JSON value could be recovered
// from a piece of text. Callers absorb it and degrade to empty records.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return "json extraction: " + e.Reason
}

var (
	fencedAny    = regexp.MustCompile("(?i)```(?:json)?\\s*([\\[{][\\s\\S]*?[\\]}])\\s*```")
	fencedObject = regexp.MustCompile("(?i)```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")
	fencedArray  = regexp.MustCompile("(?i)```(?:json)?\\s*(\\[[\\s\\S]*?\\])\\s*```")

	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
	danglingComma = regexp.MustCompile(`,\s*\]`)
)

// ExtractJSON locates and parses the first JSON value of the requested kind
// embedded in arbitrary free text. Model completions are often wrapped in
// markdown fences or truncated mid-structure by token limits, so candidates
// that fail a direct parse go through layered salvage: trailing-comma
// stripping, then truncated-array and truncated-object recovery.
func ExtractJSON(text string, kind Kind) (json.RawMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ExtractionError{Reason: "empty input"}
	}

	text = Sanitize(text)

	candidate := findCandidate(text, kind)
	if candidate == "" {
		return nil, &ExtractionError{Reason: "no candidate region found"}
	}

	if parsed, ok := tryParse(candidate); ok {
		return parsed, nil
	}

	// Strip trailing commas immediately before a closing brace/bracket.
	repaired := trailingComma.ReplaceAllString(candidate, "$1")
	if parsed, ok := tryParse(repaired); ok {
		return parsed, nil
	}

	// Truncated array: drop the incomplete tail element and force-close.
	if strings.HasPrefix(repaired, "[") {
		if last := strings.LastIndex(repaired, "}"); last != -1 {
			salvaged := strings.TrimRight(repaired[:last+1], " \t\r\n")
			if !strings.HasSuffix(salvaged, "]") {
				salvaged += "]"
			}
			salvaged = danglingComma.ReplaceAllString(salvaged, "]")
			if parsed, ok := tryParse(salvaged); ok {
				return parsed, nil
			}
		}
	}

	// Truncated object: cut at the last complete-looking close.
	if strings.HasPrefix(repaired, "{") {
		if last := strings.LastIndex(repaired, "}"); last != -1 {
			if parsed, ok := tryParse(repaired[:last+1]); ok {
				return parsed, nil
			}
		}
	}

	return nil, &ExtractionError{Reason: "no parseable JSON"}
}

// findCandidate returns the most promising JSON span, preferring fenced
// blocks over bare brace scanning. When the matching closer is missing the
// candidate runs to the end of the text so the salvage paths can repair it.
func findCandidate(text string, kind Kind) string {
	var fence *regexp.Regexp
	switch kind {
	case KindObject:
		fence = fencedObject
	case KindArray:
		fence = fencedArray
	default:
		fence = fencedAny
	}
	if m := fence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	start, closer := openerFor(text, kind)
	if start == -1 {
		return ""
	}

	end := strings.LastIndex(text, closer)
	if end <= start {
		// Closer never arrived: assume truncation and keep the tail.
		return strings.TrimSpace(text[start:])
	}
	return strings.TrimSpace(text[start : end+1])
}

// openerFor finds the first opener acceptable for the kind and reports the
// closer that matches it. For KindAny, whichever of '{' or '[' occurs first
// in the text chooses the shape.
func openerFor(text string, kind Kind) (int, string) {
	brace := strings.Index(text, "{")
	bracket := strings.Index(text, "[")

	switch kind {
	case KindObject:
		return brace, "}"
	case KindArray:
		return bracket, "]"
	}

	switch {
	case brace == -1 && bracket == -1:
		return -1, ""
	case brace == -1:
		return bracket, "]"
	case bracket == -1:
		return brace, "}"
	case bracket < brace:
		return bracket, "]"
	default:
		return brace, "}"
	}
}

func tryParse(candidate string) (json.RawMessage, bool) {
	if !json.Valid([]byte(candidate)) {
		return nil, false
	}
	return json.RawMessage(candidate), true
}
