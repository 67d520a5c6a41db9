package extraction

import (
	"context"
	"errors"
	"testing"
)

func fixedStrategy(record VitalsRecord) Strategy {
	return func(ctx context.Context, transcript string) (VitalsRecord, error) {
		return record, nil
	}
}

func failingStrategy() Strategy {
	return func(ctx context.Context, transcript string) (VitalsRecord, error) {
		return VitalsRecord{}, errors.New("strategy failed")
	}
}

func TestExtractVitalsRobust_CompletePrimaryShortCircuits(t *testing.T) {
	primary := VitalsRecord{
		BP:     strPtr("120/80"),
		Temp:   strPtr("37"),
		Pulse:  strPtr("72"),
		SpO2:   strPtr("98"),
		Weight: strPtr("70"),
	}

	secondaryCalled := false
	secondary := func(ctx context.Context, transcript string) (VitalsRecord, error) {
		secondaryCalled = true
		return VitalsRecord{}, nil
	}

	record := ExtractVitalsRobust(context.Background(), "transcript", fixedStrategy(primary), secondary)

	if !record.IsComplete() {
		t.Error("Expected complete record")
	}
	if secondaryCalled {
		t.Error("Secondary should not run when primary is complete")
	}
}

func TestExtractVitalsRobust_MergeFillsGapsOnly(t *testing.T) {
	primary := fixedStrategy(VitalsRecord{Pulse: strPtr("80")})
	secondary := fixedStrategy(VitalsRecord{BP: strPtr("120/80"), Pulse: strPtr("75")})

	record := ExtractVitalsRobust(context.Background(), "transcript", primary, secondary)

	// Primary keeps its pulse, secondary fills the missing bp.
	if record.Pulse == nil || *record.Pulse != "80" {
		t.Errorf("Expected primary pulse 80 to win, got %s", derefOr(record.Pulse, "<nil>"))
	}
	if record.BP == nil || *record.BP != "120/80" {
		t.Errorf("Expected bp filled from secondary, got %s", derefOr(record.BP, "<nil>"))
	}
}

func TestExtractVitalsRobust_PrimaryFailureFallsBack(t *testing.T) {
	secondary := fixedStrategy(VitalsRecord{Temp: strPtr("38.2")})

	record := ExtractVitalsRobust(context.Background(), "transcript", failingStrategy(), secondary)

	if record.Temp == nil || *record.Temp != "38.2" {
		t.Errorf("Expected secondary temp, got %s", derefOr(record.Temp, "<nil>"))
	}
}

func TestExtractVitalsRobust_NilPrimary(t *testing.T) {
	secondary := fixedStrategy(VitalsRecord{Weight: strPtr("65")})

	record := ExtractVitalsRobust(context.Background(), "transcript", nil, secondary)

	if record.Weight == nil || *record.Weight != "65" {
		t.Errorf("Expected secondary weight, got %s", derefOr(record.Weight, "<nil>"))
	}
}

func TestExtractVitalsRobust_BothFailYieldsEmptyRecord(t *testing.T) {
	record := ExtractVitalsRobust(context.Background(), "transcript", failingStrategy(), failingStrategy())

	if record.HasAny() {
		t.Errorf("Expected all-nil record, got %+v", record)
	}
}

func TestMergeVitals(t *testing.T) {
	primary := VitalsRecord{BP: strPtr("120/80"), Temp: strPtr("37")}
	fallback := VitalsRecord{BP: strPtr("999/999"), Pulse: strPtr("72"), Weight: strPtr("70")}

	merged := mergeVitals(primary, fallback)

	if *merged.BP != "120/80" {
		t.Errorf("Filled field must not be overwritten, got %s", *merged.BP)
	}
	if *merged.Temp != "37" {
		t.Errorf("Expected temp kept, got %s", *merged.Temp)
	}
	if merged.Pulse == nil || *merged.Pulse != "72" {
		t.Errorf("Expected pulse filled, got %s", derefOr(merged.Pulse, "<nil>"))
	}
	if merged.SpO2 != nil {
		t.Error("Field missing in both should stay nil")
	}
}
