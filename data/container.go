// Package data provides thread-safe storage for the prescription reference
// catalog. The CatalogContainer uses atomic pointers so a full reload swaps
// the whole catalog without ever exposing a partially-replaced state to
// concurrent readers.
package data

import (
	"sync/atomic"
	"time"

	"github.com/medivoice/medivoice-api/catalog/entities"
	"github.com/medivoice/medivoice-api/interfaces"
	"github.com/medivoice/medivoice-api/logging"
)

// Compile-time check to ensure CatalogContainer implements CatalogStore
var _ interfaces.CatalogStore = (*CatalogContainer)(nil)

// CatalogContainer holds the catalog with atomic pointers for zero-downtime reloads
type CatalogContainer struct {
	drugs           atomic.Value // []entities.Drug
	drugsMap        atomic.Value // map[string]entities.Drug
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewCatalogContainer creates a new CatalogContainer with empty data
func NewCatalogContainer() *CatalogContainer {
	cc := &CatalogContainer{}
	cc.drugs.Store(make([]entities.Drug, 0))
	cc.drugsMap.Store(make(map[string]entities.Drug))
	cc.lastUpdated.Store(time.Time{})
	cc.serverStartTime.Store(time.Time{})
	return cc
}

// Thread-safe getters with type check

// GetDrugs returns the catalog in original file order
func (cc *CatalogContainer) GetDrugs() []entities.Drug {
	if v := cc.drugs.Load(); v != nil {
		if drugs, ok := v.([]entities.Drug); ok {
			return drugs
		}
	}

	logging.Warn("Drug catalog is empty or invalid")
	return []entities.Drug{}
}

// GetDrugsMap returns the id-keyed drug map for O(1) lookups
func (cc *CatalogContainer) GetDrugsMap() map[string]entities.Drug {
	if v := cc.drugsMap.Load(); v != nil {
		if drugsMap, ok := v.(map[string]entities.Drug); ok {
			return drugsMap
		}
	}

	logging.Warn("Drug map is empty or invalid")
	return make(map[string]entities.Drug)
}

// GetLastUpdated returns the timestamp of the last catalog reload
func (cc *CatalogContainer) GetLastUpdated() time.Time {
	if v := cc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a catalog reload is currently in progress
func (cc *CatalogContainer) IsUpdating() bool {
	return cc.updating.Load()
}

// SetServerStartTime sets the server start time
func (cc *CatalogContainer) SetServerStartTime(startTime time.Time) {
	cc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (cc *CatalogContainer) GetServerStartTime() time.Time {
	if v := cc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData atomically replaces the whole catalog
func (cc *CatalogContainer) UpdateData(drugs []entities.Drug, drugsMap map[string]entities.Drug) {
	// Atomic swap (zero downtime replacement)
	cc.drugs.Store(drugs)
	cc.drugsMap.Store(drugsMap)
	cc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a catalog reload.
// Returns true if the reload can proceed, false if another is in progress.
func (cc *CatalogContainer) BeginUpdate() bool {
	return cc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a catalog reload
func (cc *CatalogContainer) EndUpdate() {
	cc.updating.Store(false)
}
