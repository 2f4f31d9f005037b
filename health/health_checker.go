// Package health reports whether the interaction data being served is usable and fresh.
package health

import (
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/giygas/knowyourdrug/interfaces"
)

const (
	staleAfter       = 48 * time.Hour
	stuckUpdateAfter = 6 * time.Hour
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore   interfaces.DataStore
	source      string
	reloadTimes []time.Duration // offsets from midnight, sorted
	now         func() time.Time
}

// NewHealthChecker creates a health checker. source is the configured
// interaction source, empty when only the built-in table is served.
func NewHealthChecker(dataStore interfaces.DataStore, source string, reloadTimes []string) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		dataStore:   dataStore,
		source:      source,
		reloadTimes: parseClockTimes(reloadTimes),
		now:         time.Now,
	}
}

// parseClockTimes converts HH:MM strings to offsets from midnight, ignoring invalid ones
func parseClockTimes(times []string) []time.Duration {
	offsets := make([]time.Duration, 0, len(times))
	for _, s := range times {
		t, err := time.Parse("15:04", s)
		if err != nil {
			continue
		}
		offsets = append(offsets, time.Duration(t.Hour())*time.Hour+time.Duration(t.Minute())*time.Minute)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}

// HealthCheck returns the status, data-related details and the HTTP status.
// The built-in table never goes stale, so age only matters with a source.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	registry := h.dataStore.GetRegistry()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()
	report := h.dataStore.GetQualityReport()

	dataAge := h.now().Sub(lastUpdate)
	hasSource := h.source != ""

	switch {
	case registry.PairCount() == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case hasSource && dataAge > staleAfter:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case hasSource && isUpdating && dataAge > stuckUpdateAfter:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	source := h.source
	if !hasSource {
		source = "built-in"
	}

	data = map[string]any{
		"source":         source,
		"pairs":          registry.PairCount(),
		"drugs":          registry.DrugCount(),
		"is_updating":    isUpdating,
		"duplicate_rows": report.DuplicatePairs,
	}

	if lastUpdate.IsZero() {
		data["last_update"] = "never"
	} else {
		data["last_update"] = lastUpdate.Format(time.RFC3339)
		data["data_age_hours"] = math.Round(dataAge.Hours()*10) / 10
	}

	if next := h.CalculateNextUpdate(); !next.IsZero() {
		data["next_update"] = next.Format(time.RFC3339)
	}

	return status, data, httpStatus
}

// CalculateNextUpdate returns the next configured reload time, or the zero
// time when no source is configured
func (h *HealthCheckerImpl) CalculateNextUpdate() time.Time {
	if h.source == "" || len(h.reloadTimes) == 0 {
		return time.Time{}
	}

	now := h.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, offset := range h.reloadTimes {
		if next := midnight.Add(offset); next.After(now) {
			return next
		}
	}

	return midnight.AddDate(0, 0, 1).Add(h.reloadTimes[0])
}
