// Package vitals exposes the transcript-to-vitals extraction operation. The
// hosted model is always tried first when configured; the offline pattern
// extractor is the guaranteed-available fallback and gap filler.
package vitals

import (
	"context"
	"fmt"

	"github.com/medivoice/medivoice-api/completion"
	"github.com/medivoice/medivoice-api/extraction"
	"github.com/medivoice/medivoice-api/interfaces"
)

// Vitals extraction is short structured output; the token budget stays small.
const (
	maxTokens = 256
	minTokens = 24
)

// Service extracts vital signs from clinical transcripts.
type Service struct {
	completer interfaces.Completer
}

// NewService creates a vitals service. A nil completer disables the model
// tier; extraction then runs on patterns alone.
func NewService(completer interfaces.Completer) *Service {
	return &Service{completer: completer}
}

// ExtractVitals returns the best-effort vitals record for a transcript.
// It never fails; the worst case is an all-null record.
func (s *Service) ExtractVitals(ctx context.Context, transcript string) extraction.VitalsRecord {
	return extraction.ExtractVitalsRobust(ctx, transcript, s.modelStrategy(), patternStrategy)
}

// modelStrategy asks the completion gateway for a strict JSON object and
// normalizes whatever comes back.
func (s *Service) modelStrategy() extraction.Strategy {
	if s.completer == nil {
		return nil
	}
	return func(ctx context.Context, transcript string) (extraction.VitalsRecord, error) {
		raw, err := completion.Structured(ctx, s.completer, completion.Request{
			Prompt:      primaryPrompt(transcript),
			RetryPrompt: retryPrompt(transcript),
			Kind:        extraction.KindObject,
			MaxTokens:   maxTokens,
			MinTokens:   minTokens,
		})
		if err != nil {
			return extraction.VitalsRecord{}, err
		}
		return extraction.NormalizeVitals(raw), nil
	}
}

func patternStrategy(_ context.Context, transcript string) (extraction.VitalsRecord, error) {
	return extraction.ExtractVitalsByPattern(transcript), nil
}

func primaryPrompt(transcript string) string {
	return fmt.Sprintf(
		"Extract vital signs from this transcript into STRICT JSON with keys: bp, temp, pulse, spo2, weight.\n"+
			"- Use bp format like \"140/90\" when possible.\n"+
			"- temp should be a number in Celsius if present.\n"+
			"- pulse should be a number (bpm) if present.\n"+
			"- spo2 should be a number (percent) if present.\n"+
			"- weight should be a number (kg) if present.\n"+
			"Return ONLY the JSON object (no markdown, no extra text).\n"+
			"Transcript: %s", transcript)
}

// retryPrompt is deliberately shorter and less strict in case the model is
// refusing or terminating early on the primary prompt.
func retryPrompt(transcript string) string {
	return fmt.Sprintf("Return a JSON object with bp,temp,pulse,spo2,weight extracted from: %s", transcript)
}
