package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SpO2 readings outside this range are sensor noise or mis-heard numbers,
// never a plausible saturation.
const (
	spo2Min = 70
	spo2Max = 100
)

// Pattern lists are ordered: for each field the first match wins and the
// remaining patterns are skipped. Compiled once at package initialization.
var (
	bpPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:bp|blood\s*pressure)\b[^0-9]{0,20}?(\d{2,3})\s*(?:/|over)\s*(\d{2,3})`),
		regexp.MustCompile(`(\d{2,3})\s*(?:/|over)\s*(\d{2,3})`),
	}

	tempPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:temp|temperature)\b[^0-9]{0,20}?(\d{2}(?:\.\d+)?)`),
		regexp.MustCompile(`(\d{2}(?:\.\d+)?)\s*(?:°\s*c|deg(?:rees)?\s*(?:c\b|celsius)|celsius)`),
	}

	pulsePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:pulse|heart\s*rate|hr)\b[^0-9]{0,20}?(\d{2,3})`),
		regexp.MustCompile(`(\d{2,3})\s*(?:bpm|beats\s*per\s*minute)`),
	}

	spo2Patterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:spo2|o2\s*sat|oxygen\s*saturation|sat(?:uration)?s?)\b[^0-9]{0,20}?(\d{2,3})`),
		regexp.MustCompile(`(\d{2,3})\s*(?:%|percent)\s*(?:o2|oxygen|sat)`),
	}

	weightPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:weight|weighs|wt)\b[^0-9]{0,20}?(\d{1,3}(?:\.\d+)?)`),
		regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)\s*(?:kg|kilo(?:gram)?s?)\b`),
	}
)

// ExtractVitalsByPattern extracts vital signs directly from transcript text
// without any model. Fields are independent: one field's absence never
// blocks extraction of the others.
func ExtractVitalsByPattern(transcript string) VitalsRecord {
	text := strings.ToLower(transcript)

	return VitalsRecord{
		BP:     extractBP(text),
		Temp:   firstCapture(tempPatterns, text, nil),
		Pulse:  firstCapture(pulsePatterns, text, nil),
		SpO2:   firstCapture(spo2Patterns, text, validSpO2),
		Weight: firstCapture(weightPatterns, text, nil),
	}
}

// extractBP composes the two captured readings into the canonical NNN/NNN
// form, so "140 over 90" and "140/90" normalize identically.
func extractBP(text string) *string {
	for _, p := range bpPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			bp := fmt.Sprintf("%s/%s", m[1], m[2])
			return &bp
		}
	}
	return nil
}

// firstCapture tries each pattern in priority order and returns the first
// capture that passes validation. A rejected match is treated as not-a-match
// and the search continues with the next pattern.
func firstCapture(patterns []*regexp.Regexp, text string, validate func(string) bool) *string {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := m[1]
		if validate != nil && !validate(value) {
			continue
		}
		return &value
	}
	return nil
}

func validSpO2(value string) bool {
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false
	}
	return n >= spo2Min && n <= spo2Max
}
