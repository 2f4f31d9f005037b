// Package interfaces defines core abstractions for the interaction checker
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/knowyourdrug/interactions"
)

// DataQualityReport summarizes issues found in a loaded interaction table
type DataQualityReport struct {
	TotalTriples         int
	DistinctPairs        int
	SelfPairs            []string
	ConflictingPairs     []string // "A + B" pairs stored with different severities
	DuplicatePairs       int      // pairs given more than once with the same severity
	DrugsWithoutPartners int      // supplementary names not part of any pair
}

// HasErrors reports whether the table cannot be turned into a registry
func (r *DataQualityReport) HasErrors() bool {
	return r != nil && (len(r.SelfPairs) > 0 || len(r.ConflictingPairs) > 0)
}

// ParseResult is the raw content of an interaction source
type ParseResult struct {
	Interactions  []interactions.Interaction
	Supplementary []string
	Lines         int
	Skipped       int
}

// DataStore defines the contract for the registry snapshot holder.
// Readers always get a complete, immutable registry; updates swap it atomically.
type DataStore interface {
	// Data retrieval methods
	GetRegistry() *interactions.Registry
	GetLastUpdated() time.Time
	GetQualityReport() *DataQualityReport
	IsUpdating() bool
	GetServerStartTime() time.Time

	// Data update methods
	UpdateData(registry *interactions.Registry, report *DataQualityReport)
	BeginUpdate() bool
	EndUpdate()
}

// Parser defines the contract for reading interaction data from an external source
type Parser interface {
	ParseInteractions(ctx context.Context) (*ParseResult, error)
	Source() string
}

// Scheduler defines the contract for job scheduling and health monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
type HTTPHandler interface {
	ListDrugs(w http.ResponseWriter, r *http.Request)
	CheckInteractions(w http.ResponseWriter, r *http.Request)
	CheckInteractionsJSON(w http.ResponseWriter, r *http.Request)
	LookupPair(w http.ResponseWriter, r *http.Request)
	ListSeverities(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns the status, data-related details and the HTTP status to answer with
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextUpdate returns the next scheduled reload, or the zero time when none is scheduled
	CalculateNextUpdate() time.Time
}

// DataValidator defines the contract for input and data validation.
type DataValidator interface {
	// ValidateDrugName checks a single user supplied drug name
	ValidateDrugName(name string) error

	// ValidateSelection checks the distinct names and their count
	ValidateSelection(names []string, max int) error

	// ReportDataQuality inspects loaded triples before a registry is built from them
	ReportDataQuality(triples []interactions.Interaction, supplementary []string) *DataQualityReport
}
