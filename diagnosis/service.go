// Package diagnosis generates and refines differential diagnoses through
// the text-completion collaborator. Unlike vitals extraction there is no
// pattern-based fallback: free-text clinical reasoning has no reliable
// regex substitute, so a flow that yields nothing parseable after its one
// retry surfaces an explicit failure instead of a misleading empty success.
package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/medivoice/medivoice-api/completion"
	"github.com/medivoice/medivoice-api/extraction"
	"github.com/medivoice/medivoice-api/interfaces"
	"github.com/medivoice/medivoice-api/logging"
)

// ErrUnavailable reports that the completion service yielded nothing
// parseable after the single fixed retry.
var ErrUnavailable = errors.New("diagnosis unavailable")

const (
	// A differential is capped at the top three candidates.
	maxCandidates = 3

	defaultReasoning = "No reasoning provided."
	defaultAnalysis  = "No analysis provided."

	// Diagnosis responses run longer than vitals extraction.
	maxTokens = 512
	minTokens = 48
)

// Candidate is one differential-diagnosis entry.
type Candidate struct {
	Condition         string  `json:"condition"`
	Probability       float64 `json:"probability"`
	Reasoning         string  `json:"reasoning"`
	DetailedReasoning string  `json:"detailed_reasoning,omitempty"`
}

// Service runs the diagnosis flows against a completion collaborator.
type Service struct {
	completer interfaces.Completer
}

func NewService(completer interfaces.Completer) *Service {
	return &Service{completer: completer}
}

// GetDiagnoses produces up to three differential-diagnosis candidates for
// the presented symptoms, vitals and optional history.
func (s *Service) GetDiagnoses(ctx context.Context, symptoms string, vitals extraction.VitalsRecord, history string) ([]Candidate, error) {
	raw, err := completion.Structured(ctx, s.completer, completion.Request{
		Prompt:      diagnosisPrompt(symptoms, vitals, history),
		RetryPrompt: relaxedDiagnosisPrompt(symptoms),
		Kind:        extraction.KindArray,
		MaxTokens:   maxTokens,
		MinTokens:   minTokens,
	})
	if err != nil {
		logging.Warn("Could not parse JSON list from model output", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	candidates := cleanCandidates(raw)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: model returned no usable candidates", ErrUnavailable)
	}
	return candidates, nil
}

// ConfirmDiagnosis re-evaluates a prior differential against new lab
// results. It returns the refined candidate list and the model's analysis.
func (s *Service) ConfirmDiagnosis(ctx context.Context, prior []Candidate, symptoms string, labs map[string]string) ([]Candidate, string, error) {
	raw, err := completion.Structured(ctx, s.completer, completion.Request{
		Prompt:      confirmPrompt(prior, symptoms, labs),
		RetryPrompt: relaxedConfirmPrompt(prior, symptoms, labs),
		Kind:        extraction.KindObject,
		MaxTokens:   maxTokens,
		MinTokens:   minTokens,
	})
	if err != nil {
		logging.Warn("Could not parse JSON object from model output", "error", err)
		return nil, "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var parsed struct {
		FinalDiagnosis json.RawMessage `json:"final_diagnosis"`
		Analysis       string          `json:"analysis"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	analysis := strings.TrimSpace(parsed.Analysis)
	if analysis == "" {
		analysis = defaultAnalysis
	}

	return cleanCandidates(parsed.FinalDiagnosis), analysis, nil
}

// cleanCandidates applies the invariants: at most three items, elements that
// are not objects are skipped one by one, items missing a condition are
// discarded (never defaulted), probabilities are clamped and percent-style
// values divided down, and empty reasoning gets the fixed placeholder.
func cleanCandidates(raw json.RawMessage) []Candidate {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	if len(elems) > maxCandidates {
		elems = elems[:maxCandidates]
	}

	var out []Candidate
	for _, elem := range elems {
		var item map[string]any
		// A stray string or number among the objects poisons only itself,
		// not the whole list.
		if err := json.Unmarshal(elem, &item); err != nil {
			continue
		}

		condition := strings.TrimSpace(stringField(item, "condition"))
		if condition == "" {
			continue
		}

		reasoning := strings.TrimSpace(stringField(item, "reasoning"))
		if reasoning == "" {
			reasoning = defaultReasoning
		}

		out = append(out, Candidate{
			Condition:         condition,
			Probability:       normalizeProbability(item["probability"]),
			Reasoning:         reasoning,
			DetailedReasoning: strings.TrimSpace(stringField(item, "detailed_reasoning")),
		})
	}
	return out
}

// stringField reads a field that should be a string but sometimes arrives
// as a bare number; numeric values are stringified rather than dropped.
func stringField(item map[string]any, key string) string {
	switch v := item[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// normalizeProbability accepts percent-style outputs like 85 or "85%":
// values in (1, 100] are read as percentages, then the result is clamped
// to [0, 1]. Unparseable input collapses to 0.
func normalizeProbability(v any) float64 {
	var p float64
	switch t := v.(type) {
	case float64:
		p = t
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(t), "%")
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0
		}
		p = parsed
	default:
		return 0
	}

	if p > 1.0 && p <= 100.0 {
		p = p / 100.0
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func diagnosisPrompt(symptoms string, vitals extraction.VitalsRecord, history string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Patient presents with symptoms: %s\n", symptoms)
	fmt.Fprintf(&b, "Vitals: BP %s, Temp %s, Pulse %s, SpO2 %s, Weight %s.\n",
		deref(vitals.BP), deref(vitals.Temp), deref(vitals.Pulse), deref(vitals.SpO2), deref(vitals.Weight))
	if history != "" {
		fmt.Fprintf(&b, "History: %s\n", history)
	}
	b.WriteString("Task: Provide a differential diagnosis of the top 3 most likely conditions based on standard tropical medicine guidelines (Ghana).\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Return EXACTLY 3 items.\n")
	b.WriteString("- probability MUST be a number from 0.0 to 1.0.\n")
	b.WriteString("- reasoning MUST be ONE sentence, max 20 words.\n")
	b.WriteString("Return ONLY a raw JSON list: [{\"condition\": \"Name\", \"probability\": 0.0, \"reasoning\": \"...\"}]")
	return b.String()
}

func confirmPrompt(prior []Candidate, symptoms string, labs map[string]string) string {
	priorJSON, _ := json.Marshal(prior)
	labsJSON, _ := json.Marshal(labs)

	var b strings.Builder
	b.WriteString("Clinical Update:\n")
	fmt.Fprintf(&b, "Initial Hypothesis: %s\n", priorJSON)
	fmt.Fprintf(&b, "New Lab Results: %s\n", labsJSON)
	fmt.Fprintf(&b, "Symptoms: %s\n", symptoms)
	b.WriteString("Task: Re-evaluate the diagnosis. Does the lab result confirm, refute, or suggest a new condition?\n")
	b.WriteString("Return JSON: {\"final_diagnosis\": [...], \"analysis\": \"Brief explanation\"}\n")
	b.WriteString("Rules:\n")
	b.WriteString("- final_diagnosis MUST be a JSON list of up to 3 items.\n")
	b.WriteString("- Each item should include condition, probability (0.0-1.0), reasoning.\n")
	b.WriteString("- analysis MUST be 1-2 sentences.\n")
	b.WriteString("Return ONLY the JSON object (no markdown, no extra text).")
	return b.String()
}

// The relaxed prompts are deliberately shorter in case the model refuses or
// terminates early on the full instruction set.
func relaxedDiagnosisPrompt(symptoms string) string {
	return fmt.Sprintf("Return a JSON list of up to 3 objects with condition, probability, reasoning for: %s", symptoms)
}

func relaxedConfirmPrompt(prior []Candidate, symptoms string, labs map[string]string) string {
	labsJSON, _ := json.Marshal(labs)
	priorJSON, _ := json.Marshal(prior)
	return fmt.Sprintf("Given diagnosis %s, symptoms %q and labs %s, return JSON {\"final_diagnosis\": [...], \"analysis\": \"...\"}",
		priorJSON, symptoms, labsJSON)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
