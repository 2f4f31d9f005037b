// Package data provides thread-safe storage of the current interaction registry.
// The registry is published as an immutable snapshot and replaced atomically,
// so checks running during a reload keep the snapshot they started with.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/knowyourdrug/interactions"
	"github.com/giygas/knowyourdrug/interfaces"
	"github.com/giygas/knowyourdrug/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the registry snapshot with atomic pointers for zero-downtime updates
type DataContainer struct {
	registry        atomic.Pointer[interactions.Registry]
	qualityReport   atomic.Pointer[interfaces.DataQualityReport]
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a container serving the built-in registry
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.registry.Store(interactions.Default())
	dc.qualityReport.Store(&interfaces.DataQualityReport{})
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// GetRegistry returns the current snapshot. It never returns nil.
func (dc *DataContainer) GetRegistry() *interactions.Registry {
	if r := dc.registry.Load(); r != nil {
		return r
	}

	logging.Warn("Registry snapshot missing, serving built-in table")
	return interactions.Default()
}

// SeverityOf looks the pair up in the current snapshot
func (dc *DataContainer) SeverityOf(drugA, drugB string) interactions.Severity {
	return dc.GetRegistry().SeverityOf(drugA, drugB)
}

// GetQualityReport returns the report of the last loaded table
func (dc *DataContainer) GetQualityReport() *interfaces.DataQualityReport {
	if r := dc.qualityReport.Load(); r != nil {
		return r
	}
	return &interfaces.DataQualityReport{}
}

// GetLastUpdated returns the timestamp of the last data update
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a data update is currently in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData publishes a new registry snapshot. A nil registry is ignored.
func (dc *DataContainer) UpdateData(registry *interactions.Registry, report *interfaces.DataQualityReport) {
	if registry == nil {
		logging.Warn("Ignoring update with nil registry")
		return
	}
	if report == nil {
		report = &interfaces.DataQualityReport{}
	}

	dc.registry.Store(registry)
	dc.qualityReport.Store(report)
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a data update operation
// Returns true if update can proceed, false if another update is in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a data update operation
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
