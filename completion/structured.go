package completion

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/medivoice/medivoice-api/extraction"
	"github.com/medivoice/medivoice-api/interfaces"
	"github.com/medivoice/medivoice-api/logging"
)

// Request describes one structured completion: a prompt, an optional relaxed
// prompt used for the single fixed retry when the first completion comes
// back empty, and the JSON shape expected in the output.
type Request struct {
	Prompt      string
	RetryPrompt string
	Kind        extraction.Kind
	MaxTokens   int
	MinTokens   int
}

// Structured runs a completion and salvages the first JSON value of the
// expected shape from its output. An empty completion (including a timeout)
// triggers at most one retry with the relaxed prompt; there is no backoff
// and no further retries. A parse failure is returned as the extraction
// error so callers can decide whether to degrade or surface it.
func Structured(ctx context.Context, c interfaces.Completer, req Request) (json.RawMessage, error) {
	out := complete(ctx, c, req.Prompt, req)

	if strings.TrimSpace(out) == "" && req.RetryPrompt != "" {
		logging.Debug("Empty completion, retrying with relaxed prompt")
		out = complete(ctx, c, req.RetryPrompt, req)
	}

	if strings.TrimSpace(out) == "" {
		return nil, &extraction.ExtractionError{Reason: "empty completion"}
	}

	return extraction.ExtractJSON(out, req.Kind)
}

// complete absorbs transport failures: a timeout or gateway error yields an
// empty completion rather than an error, so the caller falls through to its
// next tier.
func complete(ctx context.Context, c interfaces.Completer, prompt string, req Request) string {
	if c == nil {
		return ""
	}
	out, err := c.Complete(ctx, prompt, req.MaxTokens, req.MinTokens)
	if err != nil {
		logging.Warn("Completion call failed, treating as empty", "error", err)
		return ""
	}
	return out
}
