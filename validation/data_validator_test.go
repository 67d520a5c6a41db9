package validation

import (
	"slices"
	"strings"
	"testing"

	"github.com/medivoice/medivoice-api/catalog/entities"
)

func TestNewDataValidator(t *testing.T) {
	validator := NewDataValidator()

	if validator == nil {
		t.Fatal("NewDataValidator returned nil")
	}

	// Type assertion to verify it's the correct type
	if _, ok := validator.(*DataValidatorImpl); !ok {
		t.Error("NewDataValidator should return *DataValidatorImpl")
	}
}

func TestValidateDrug_Valid(t *testing.T) {
	validator := NewDataValidator()

	drug := &entities.Drug{
		ID:              "pcm-500",
		GenericName:     "Paracetamol",
		NHISLevel:       "C",
		Formulation:     "tablet 500mg",
		AdultDosage:     "1g every 6 hours",
		IndicationsTags: []string{"fever", "pain"},
	}

	if err := validator.ValidateDrug(drug); err != nil {
		t.Errorf("Expected no error for valid drug, got: %v", err)
	}
}

func TestValidateDrug_Nil(t *testing.T) {
	validator := NewDataValidator()

	err := validator.ValidateDrug(nil)
	if err == nil {
		t.Fatal("Expected error for nil drug")
	}
	if err.Error() != "drug is nil" {
		t.Errorf("Unexpected error message: %q", err.Error())
	}
}

func TestValidateDrug_Invalid(t *testing.T) {
	validator := NewDataValidator()

	testCases := []struct {
		name string
		drug *entities.Drug
	}{
		{"Empty ID", &entities.Drug{GenericName: "Paracetamol"}},
		{"Whitespace ID", &entities.Drug{ID: "   ", GenericName: "Paracetamol"}},
		{"Empty generic name", &entities.Drug{ID: "pcm-500"}},
		{"Generic name too long", &entities.Drug{ID: "pcm-500", GenericName: strings.Repeat("x", 201)}},
		{"Tag too long", &entities.Drug{ID: "pcm-500", GenericName: "Paracetamol", IndicationsTags: []string{strings.Repeat("y", 101)}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validator.ValidateDrug(tc.drug); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestReportCatalogQuality(t *testing.T) {
	validator := NewDataValidator()

	drugs := []entities.Drug{
		{ID: "pcm-500", GenericName: "Paracetamol", NHISLevel: "C", AdultDosage: "1g", IndicationsTags: []string{"fever"}},
		{ID: "pcm-500", GenericName: "Paracetamol Duplicate", NHISLevel: "C", AdultDosage: "1g", IndicationsTags: []string{"pain"}},
		{ID: "no-tags", GenericName: "Untagged", NHISLevel: "A", AdultDosage: "5ml"},
		{ID: "bad-level", GenericName: "Weird Level", NHISLevel: "X", AdultDosage: "1g", IndicationsTags: []string{"cough"}},
		{ID: "no-dosage", GenericName: "Dosageless", NHISLevel: "B", IndicationsTags: []string{"fever"}},
	}

	report := validator.ReportCatalogQuality(drugs)

	if !slices.Contains(report.DuplicateIDs, "pcm-500") {
		t.Errorf("Expected pcm-500 reported as duplicate, got %v", report.DuplicateIDs)
	}
	if report.DrugsWithoutTags != 1 || !slices.Contains(report.DrugsWithoutTagsIDs, "no-tags") {
		t.Errorf("Expected no-tags reported, got %d %v", report.DrugsWithoutTags, report.DrugsWithoutTagsIDs)
	}
	if report.UnknownNHISLevels != 1 || !slices.Contains(report.UnknownNHISLevelIDs, "bad-level") {
		t.Errorf("Expected bad-level reported, got %d %v", report.UnknownNHISLevels, report.UnknownNHISLevelIDs)
	}
	if report.DrugsWithoutDosage != 1 {
		t.Errorf("Expected 1 drug without dosage, got %d", report.DrugsWithoutDosage)
	}
}

func TestValidateInput_Valid(t *testing.T) {
	validator := NewDataValidator()

	testCases := []string{
		"malaria",
		"Uncomplicated Malaria",
		"typhoid fever (suspected)",
		"urinary tract infection",
		"diarrhoea, mild dehydration",
		"fracture - left tibia",
	}

	for _, input := range testCases {
		t.Run(input, func(t *testing.T) {
			if err := validator.ValidateInput(input); err != nil {
				t.Errorf("Expected %q to be valid, got: %v", input, err)
			}
		})
	}
}

func TestValidateInput_Invalid(t *testing.T) {
	validator := NewDataValidator()

	testCases := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"Whitespace only", "   "},
		{"Too long", strings.Repeat("a", 201)},
		{"Script tag", "<script>alert(1)</script>"},
		{"SQL injection", "' or 1=1 --"},
		{"Path traversal", "../../etc/passwd"},
		{"Template injection", "${jndi:ldap}"},
		{"Disallowed characters", "malaria; rm -rf"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validator.ValidateInput(tc.input); err == nil {
				t.Errorf("Expected %q to be rejected", tc.input)
			}
		})
	}
}
