// Package scheduler coordinates catalog loads for the medivoice API: the
// initial startup load, a scheduled daily refresh, on-demand reloads and
// staleness monitoring, all against the catalog container using dependency
// injection.
package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/medivoice/medivoice-api/catalog/entities"
	"github.com/medivoice/medivoice-api/interfaces"
	"github.com/medivoice/medivoice-api/logging"
	"github.com/medivoice/medivoice-api/metrics"
	"github.com/medivoice/medivoice-api/validation"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// ErrReloadInProgress reports that another reload holds the update flag; the
// caller's reload did not run.
var ErrReloadInProgress = errors.New("catalog reload already in progress")

// Scheduler handles catalog reloads and staleness monitoring
type Scheduler struct {
	store     interfaces.CatalogStore
	parser    interfaces.CatalogParser
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(store interfaces.CatalogStore, parser interfaces.CatalogParser) *Scheduler {
	return &Scheduler{
		store:     store,
		parser:    parser,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial catalog load and schedules the daily refresh.
// A failed initial load is fatal: the process must not serve matching
// requests without a catalog.
func (s *Scheduler) Start() error {
	if err := s.Reload(); err != nil {
		logging.Error("Failed to perform initial catalog load", "error", err)
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	// Refresh daily at 06:00 to pick up catalog file updates
	_, err := s.scheduler.Every(1).Days().At("06:00").Do(func() {
		if err := s.Reload(); err != nil && !errors.Is(err, ErrReloadInProgress) {
			logging.Error("Failed to reload catalog", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule catalog refresh", "error", err)
		return fmt.Errorf("failed to schedule catalog refresh: %w", err)
	}

	s.scheduler.StartAsync()

	s.startStalenessMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Reload performs a complete catalog reload with an atomic swap. Concurrent
// reloads collapse into one; readers never observe a partial catalog.
func (s *Scheduler) Reload() error {
	if !s.store.BeginUpdate() {
		logging.Info("Catalog reload already in progress, skipping...")
		return ErrReloadInProgress
	}
	defer s.store.EndUpdate()

	start := time.Now()

	newDrugs, err := s.parser.ParseCatalog()
	if err != nil {
		metrics.CatalogReloadsTotal.WithLabelValues("error").Inc()
		logging.Error("Failed to parse catalog", "error", err)
		return fmt.Errorf("failed to parse catalog: %w", err)
	}

	validator := validation.NewDataValidator()

	// Entries failing validation are dropped with a warning; a malformed
	// entry must not take the whole catalog down with it.
	kept := make([]entities.Drug, 0, len(newDrugs))
	for i := range newDrugs {
		if err := validator.ValidateDrug(&newDrugs[i]); err != nil {
			logging.Warn("Dropping invalid catalog entry", "error", err)
			continue
		}
		kept = append(kept, newDrugs[i])
	}

	report := validator.ReportCatalogQuality(kept)
	if len(report.DuplicateIDs) > 0 {
		logging.Warn("Duplicate drug IDs detected",
			"total", len(report.DuplicateIDs),
			"id_list", report.DuplicateIDs,
		)
	}
	if report.DrugsWithoutTags > 0 {
		logging.Warn("Drugs without indication tags will never match",
			"count", report.DrugsWithoutTags,
			"id_list", report.DrugsWithoutTagsIDs,
		)
	}
	if report.UnknownNHISLevels > 0 {
		logging.Warn("Drugs with unknown NHIS levels sort last",
			"count", report.UnknownNHISLevels,
			"id_list", report.UnknownNHISLevelIDs,
		)
	}

	newDrugsMap := make(map[string]entities.Drug, len(kept))
	for i := range kept {
		newDrugsMap[kept[i].ID] = kept[i]
	}

	// Atomic swap (zero downtime replacement)
	s.store.UpdateData(kept, newDrugsMap)

	metrics.CatalogReloadsTotal.WithLabelValues("ok").Inc()
	elapsed := time.Since(start)
	logging.Info("Catalog reload completed", "duration", elapsed.String(), "drug_count", len(kept))

	return nil
}

// startStalenessMonitoring warns when the catalog has not been refreshed in
// over 25 hours, which means the daily job is failing silently.
func (s *Scheduler) startStalenessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastUpdate := s.store.GetLastUpdated()
			if time.Since(lastUpdate) > 25*time.Hour {
				logging.Warn("Catalog hasn't been refreshed in over 25 hours")
			}
		}
	}()
}
