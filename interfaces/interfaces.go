// Package interfaces defines core abstractions for the medivoice API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"time"

	"github.com/medivoice/medivoice-api/catalog/entities"
)

// CatalogQualityReport provides a summary of catalog quality issues.
type CatalogQualityReport struct {
	DuplicateIDs        []string
	DrugsWithoutTags    int
	DrugsWithoutTagsIDs []string
	UnknownNHISLevels   int
	UnknownNHISLevelIDs []string
	DrugsWithoutDosage  int
}

// CatalogStore defines the contract for catalog storage operations.
// It provides thread-safe access to the prescription reference catalog
// with atomic operations for zero-downtime reloads.
type CatalogStore interface {
	// Data retrieval methods
	GetDrugs() []entities.Drug
	GetDrugsMap() map[string]entities.Drug
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time
	SetServerStartTime(startTime time.Time)

	// Data update methods
	UpdateData(drugs []entities.Drug, drugsMap map[string]entities.Drug)
	BeginUpdate() bool
	EndUpdate()
}

// CatalogParser defines the contract for reading the drug catalog from its
// backing resource.
type CatalogParser interface {
	ParseCatalog() ([]entities.Drug, error)
}

// Completer is the text-completion collaborator. Implementations may return
// an empty string; a timeout is reported as an error the caller treats as an
// empty completion.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens, minTokens int) (string, error)
}

// Scheduler defines the contract for catalog refresh scheduling and
// staleness monitoring.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()

	// Reload performs an on-demand full catalog reload.
	Reload() error
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	HealthCheck() (status string, data map[string]any, httpStatus int)
}

// DrugValidator defines the contract for catalog and input validation.
type DrugValidator interface {
	// ValidateDrug checks if a catalog entry is valid
	ValidateDrug(d *entities.Drug) error

	// ReportCatalogQuality generates a quality report with all issues found
	ReportCatalogQuality(drugs []entities.Drug) *CatalogQualityReport

	// ValidateInput validates user input strings
	ValidateInput(input string) error
}
