package extraction

import (
	"encoding/json"
	"strconv"
	"strings"
)

// VitalsRecord is the canonical vital-signs record. Every present field is a
// plain string; nil means the vital was not mentioned, not zero.
type VitalsRecord struct {
	BP     *string `json:"bp"`
	Temp   *string `json:"temp"`
	Pulse  *string `json:"pulse"`
	SpO2   *string `json:"spo2"`
	Weight *string `json:"weight"`
}

// HasAny reports whether at least one field is present.
func (v VitalsRecord) HasAny() bool {
	return v.BP != nil || v.Temp != nil || v.Pulse != nil || v.SpO2 != nil || v.Weight != nil
}

// IsComplete reports whether every field is present.
func (v VitalsRecord) IsComplete() bool {
	return v.BP != nil && v.Temp != nil && v.Pulse != nil && v.SpO2 != nil && v.Weight != nil
}

// Models spell the same vital many ways. Each canonical field consults its
// aliases in priority order; the first present non-empty key wins.
var vitalsAliases = map[string][]string{
	"bp":     {"bp", "blood_pressure", "bloodPressure"},
	"temp":   {"temp", "temperature"},
	"pulse":  {"pulse", "hr", "heart_rate", "heartRate"},
	"spo2":   {"spo2", "SpO2", "o2sat", "oxygen_saturation", "oxygenSaturation"},
	"weight": {"weight", "wt", "body_weight", "bodyWeight"},
}

// NormalizeVitals maps alternate key spellings onto the canonical field set
// and coerces every value to a string. It never fails: non-object input
// yields an all-nil record, and no present value is silently dropped — even
// nested JSON is serialized to its compact string form.
func NormalizeVitals(value any) VitalsRecord {
	obj := asObject(value)
	if obj == nil {
		return VitalsRecord{}
	}

	return VitalsRecord{
		BP:     pickField(obj, vitalsAliases["bp"]),
		Temp:   pickField(obj, vitalsAliases["temp"]),
		Pulse:  pickField(obj, vitalsAliases["pulse"]),
		SpO2:   pickField(obj, vitalsAliases["spo2"]),
		Weight: pickField(obj, vitalsAliases["weight"]),
	}
}

// asObject widens the accepted input: a decoded map, raw JSON bytes, or
// anything else (which normalizes to nothing).
func asObject(value any) map[string]any {
	switch v := value.(type) {
	case map[string]any:
		return v
	case json.RawMessage:
		return unmarshalObject([]byte(v))
	case []byte:
		return unmarshalObject(v)
	default:
		return nil
	}
}

func unmarshalObject(raw []byte) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj
}

func pickField(obj map[string]any, aliases []string) *string {
	for _, key := range aliases {
		v, ok := obj[key]
		if !ok || v == nil {
			continue
		}
		// A blank string does not count as present; the next alias may
		// still carry the value.
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return coerceString(v)
	}
	return nil
}

// coerceString renders a JSON value as a plain string: numbers are
// stringified, strings trimmed, and any other type serialized compactly.
func coerceString(v any) *string {
	var out string
	switch t := v.(type) {
	case string:
		out = strings.TrimSpace(t)
	case float64:
		out = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		out = strconv.FormatBool(t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		out = string(raw)
	}
	return &out
}
