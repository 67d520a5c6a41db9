// Package extraction turns unreliable free-form model output into validated
// structured records. It layers several recovery strategies: fenced-block and
// span location, JSON syntax repair, truncation salvage, key-alias
// normalization, and a pattern-based extractor that works without any model.
package extraction

import "strings"

// Typographic quotes show up when model output passes through a chat UI or
// a copy-pasted transcript. They break json.Unmarshal, so they are mapped to
// their ASCII equivalents before any parse attempt.
var quoteReplacer = strings.NewReplacer(
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
)

// Sanitize normalizes typographic quotation marks to straight quotes.
// It never fails and returns the input unchanged when nothing applies.
func Sanitize(raw string) string {
	return quoteReplacer.Replace(raw)
}
