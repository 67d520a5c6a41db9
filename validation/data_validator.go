// Package validation provides catalog and input validation for the
// medivoice API.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/medivoice/medivoice-api/catalog/entities"
	"github.com/medivoice/medivoice-api/interfaces"
)

// Pre-compiled patterns, compiled once at package initialization.
var (
	// Diagnosis and search input: letters, digits and safe clinical punctuation.
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.,'()/+]+$`)

	// Substring screens, cheaper than regex for simple containment checks.
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "onload=", "onerror=",
		"eval(", "expression(",
		"' or ", "\" or ", "union select", "drop table", "delete from",
		"insert into", "--", "/*", "*/",
		"../", "..\\", "file://",
		"${", "$(", "`",
	}
)

// Maximum accepted length for a diagnosis/search input string.
const maxInputLength = 200

// Compile-time check to ensure DataValidatorImpl implements DrugValidator
var _ interfaces.DrugValidator = (*DataValidatorImpl)(nil)

// DataValidatorImpl implements the interfaces.DrugValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DrugValidator {
	return &DataValidatorImpl{}
}

// ValidateDrug checks if a catalog entry is valid
func (v *DataValidatorImpl) ValidateDrug(d *entities.Drug) error {
	if d == nil {
		return fmt.Errorf("drug is nil")
	}

	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("empty drug id")
	}

	if strings.TrimSpace(d.GenericName) == "" {
		return fmt.Errorf("empty generic name for drug %s", d.ID)
	}

	if len(d.GenericName) > 200 {
		return fmt.Errorf("generic name too long for drug %s: %d characters", d.ID, len(d.GenericName))
	}

	for _, tag := range d.IndicationsTags {
		if len(tag) > 100 {
			return fmt.Errorf("indication tag too long for drug %s: %d characters", d.ID, len(tag))
		}
	}

	return nil
}

// ReportCatalogQuality generates a quality report with all issues found.
// Quality issues are reported, not fatal: a drug with no tags simply never
// matches, and an unknown NHIS level sorts last.
func (v *DataValidatorImpl) ReportCatalogQuality(drugs []entities.Drug) *interfaces.CatalogQualityReport {
	report := &interfaces.CatalogQualityReport{}

	seen := make(map[string]int)
	for _, d := range drugs {
		seen[d.ID]++
	}
	for id, count := range seen {
		if count > 1 {
			report.DuplicateIDs = append(report.DuplicateIDs, id)
		}
	}

	for _, d := range drugs {
		if len(d.IndicationsTags) == 0 {
			report.DrugsWithoutTags++
			report.DrugsWithoutTagsIDs = append(report.DrugsWithoutTagsIDs, d.ID)
		}

		switch strings.ToUpper(strings.TrimSpace(d.NHISLevel)) {
		case entities.NHISLevelA, entities.NHISLevelB, entities.NHISLevelC:
		default:
			report.UnknownNHISLevels++
			report.UnknownNHISLevelIDs = append(report.UnknownNHISLevelIDs, d.ID)
		}

		if strings.TrimSpace(d.AdultDosage) == "" {
			report.DrugsWithoutDosage++
		}
	}

	return report
}

// ValidateInput validates user input strings
func (v *DataValidatorImpl) ValidateInput(input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(trimmed) > maxInputLength {
		return fmt.Errorf("input too long: %d characters (max %d)", len(trimmed), maxInputLength)
	}

	lowered := strings.ToLower(trimmed)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("input contains disallowed sequence")
		}
	}

	if !inputRegex.MatchString(trimmed) {
		return fmt.Errorf("input contains invalid characters")
	}

	return nil
}
