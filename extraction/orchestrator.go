package extraction

import (
	"context"

	"github.com/medivoice/medivoice-api/logging"
	"github.com/medivoice/medivoice-api/metrics"
)

// Strategy produces a vitals record from a transcript. Implementations may
// block (a hosted-model call) or run offline (pattern matching).
type Strategy func(ctx context.Context, transcript string) (VitalsRecord, error)

// ExtractVitalsRobust sequences two extraction strategies. The primary
// (usually a model call) runs first and its fields always win; the secondary
// (always available offline) only fills the gaps the primary left. The
// function never fails: absence of data degrades to an all-nil record.
func ExtractVitalsRobust(ctx context.Context, transcript string, primary, secondary Strategy) VitalsRecord {
	var record VitalsRecord

	if primary != nil {
		r, err := primary(ctx, transcript)
		if err != nil {
			logging.Warn("Primary vitals extraction failed", "error", err)
		} else {
			record = r
		}
	}

	if record.IsComplete() {
		metrics.VitalsExtractionTotal.WithLabelValues("primary").Inc()
		return record
	}

	if secondary != nil {
		fallback, err := secondary(ctx, transcript)
		if err != nil {
			logging.Warn("Fallback vitals extraction failed", "error", err)
		} else {
			record = mergeVitals(record, fallback)
		}
	}

	switch {
	case record.HasAny():
		metrics.VitalsExtractionTotal.WithLabelValues("merged").Inc()
	default:
		metrics.VitalsExtractionTotal.WithLabelValues("empty").Inc()
	}

	return record
}

// mergeVitals fills only the missing fields of primary from fallback.
// The merge is field-level: an already-filled field is never overwritten.
func mergeVitals(primary, fallback VitalsRecord) VitalsRecord {
	if primary.BP == nil {
		primary.BP = fallback.BP
	}
	if primary.Temp == nil {
		primary.Temp = fallback.Temp
	}
	if primary.Pulse == nil {
		primary.Pulse = fallback.Pulse
	}
	if primary.SpO2 == nil {
		primary.SpO2 = fallback.SpO2
	}
	if primary.Weight == nil {
		primary.Weight = fallback.Weight
	}
	return primary
}
