package entities

import "strings"

// NHIS reimbursement levels as published in the Ghana Essential Medicines List.
const (
	NHISLevelA = "A"
	NHISLevelB = "B"
	NHISLevelC = "C"
)

// Drug represents one entry of the reference prescription catalog.
// IndicationsTags are the free-text keywords the match engine searches for
// inside a diagnosis string.
type Drug struct {
	ID              string   `json:"id"`
	GenericName     string   `json:"generic_name"`
	NHISLevel       string   `json:"nhis_level"`
	Formulation     string   `json:"formulation"`
	AdultDosage     string   `json:"adult_dosage"`
	SafetyWarning   string   `json:"safety_warning"`
	IndicationsTags []string `json:"indications_tags"`
}

// NHISPriority returns the sort priority of the drug's NHIS level.
// A sorts before B, B before C; anything unrecognised goes last.
// The level is matched case-insensitively.
func (d *Drug) NHISPriority() int {
	switch strings.ToUpper(strings.TrimSpace(d.NHISLevel)) {
	case NHISLevelA:
		return 1
	case NHISLevelB:
		return 2
	case NHISLevelC:
		return 3
	default:
		return 999
	}
}
