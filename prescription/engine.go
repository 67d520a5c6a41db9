// Package prescription implements the deterministic keyword match engine
// between a diagnosis string and the Ghana Essential Medicines List catalog.
// Matching is pure substring containment over the catalog's indication tags:
// no scoring, no fuzzing, fully reproducible.
package prescription

import (
	"sort"
	"strings"

	"github.com/medivoice/medivoice-api/catalog/entities"
)

// Match statuses reported to the interface layer. "not_found" is a
// first-class successful outcome, distinct from the catalog being
// unavailable.
const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
)

// Result is the interface-layer envelope around a match.
type Result struct {
	Status    string          `json:"status"`
	Diagnosis string          `json:"diagnosis"`
	Matches   []entities.Drug `json:"matches"`
	Count     int             `json:"count"`
	Message   string          `json:"message,omitempty"`
}

// FindDrugsFor returns every catalog entry with at least one indication tag
// contained in the diagnosis string. Each drug appears at most once, and the
// result is sorted by NHIS level priority (A before B before C, unknown
// last) with original catalog order preserved among equal priorities.
// The catalog is never mutated.
func FindDrugsFor(diagnosis string, drugs []entities.Drug) []entities.Drug {
	query := strings.ToLower(strings.TrimSpace(diagnosis))
	if query == "" {
		return []entities.Drug{}
	}

	var matches []entities.Drug
	for _, drug := range drugs {
		for _, tag := range drug.IndicationsTags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" {
				continue
			}
			if strings.Contains(query, tag) {
				// One match per drug, even when several tags hit.
				matches = append(matches, drug)
				break
			}
		}
	}

	if matches == nil {
		return []entities.Drug{}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].NHISPriority() < matches[j].NHISPriority()
	})
	return matches
}

// Suggest wraps FindDrugsFor in the status envelope the HTTP layer serves.
func Suggest(diagnosis string, drugs []entities.Drug) Result {
	matches := FindDrugsFor(diagnosis, drugs)

	if len(matches) == 0 {
		return Result{
			Status:    StatusNotFound,
			Diagnosis: diagnosis,
			Matches:   []entities.Drug{},
			Count:     0,
			Message:   "No NHIS-compliant drug found",
		}
	}

	return Result{
		Status:    StatusSuccess,
		Diagnosis: diagnosis,
		Matches:   matches,
		Count:     len(matches),
	}
}
