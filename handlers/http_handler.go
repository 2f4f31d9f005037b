// Package handlers provides the HTTP handlers of the interaction checker API.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/giygas/knowyourdrug/config"
	"github.com/giygas/knowyourdrug/interfaces"
	"github.com/giygas/knowyourdrug/logging"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("knowyourdrug-handlers")

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore     interfaces.DataStore
	validator     interfaces.DataValidator
	healthChecker interfaces.HealthChecker
	maxSelection  int
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies.
// maxSelection <= 0 falls back to config.DefaultMaxSelection.
func NewHTTPHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator, healthChecker interfaces.HealthChecker, maxSelection int) *HTTPHandlerImpl {
	if maxSelection <= 0 {
		maxSelection = config.DefaultMaxSelection
	}
	return &HTTPHandlerImpl{
		dataStore:     dataStore,
		validator:     validator,
		healthChecker: healthChecker,
		maxSelection:  maxSelection,
	}
}

// ErrorResponse is the body of every error answer
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Debug("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
}

// HealthResponse keeps a stable field order in the health answer
type HealthResponse struct {
	Status        string         `json:"status"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Uptime        string         `json:"uptime"`
	Data          map[string]any `json:"data"`
}

// HealthCheck answers /health with the data status and process uptime
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := h.healthChecker.HealthCheck()

	var uptime time.Duration
	if start := h.dataStore.GetServerStartTime(); !start.IsZero() {
		uptime = time.Since(start)
	}

	RespondWithJSON(w, httpStatus, HealthResponse{
		Status:        status,
		UptimeSeconds: uptime.Round(time.Second).Seconds(),
		Uptime:        formatUptimeHuman(uptime),
		Data:          data,
	})
}

// formatUptimeHuman formats a duration as "1d 2h 3m 4s", dropping leading zero units
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
