package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/giygas/knowyourdrug/advisory"
	"github.com/giygas/knowyourdrug/interactions"
	"github.com/giygas/knowyourdrug/logging"
	"github.com/giygas/knowyourdrug/metrics"
	"github.com/giygas/knowyourdrug/resolver"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DrugListResponse is the answer of GET /v1/drugs
type DrugListResponse struct {
	Drugs []string `json:"drugs"`
	Total int      `json:"total"`
}

// CheckRequest is the body of POST /v1/interactions
type CheckRequest struct {
	Drugs []string `json:"drugs"`
}

// PairResponse is the answer of GET /v1/interactions/{drugA}/{drugB}
type PairResponse struct {
	DrugA      string                `json:"drug_a"`
	DrugB      string                `json:"drug_b"`
	Severity   interactions.Severity `json:"severity"`
	Advice     advisory.Advice       `json:"advice"`
	DrugAKnown bool                  `json:"drug_a_known"`
	DrugBKnown bool                  `json:"drug_b_known"`
	Disclaimer string                `json:"disclaimer"`
}

// ListDrugs returns the sorted known drug names, optionally filtered by a
// case-insensitive substring in ?search=. With ?interacting=true only drugs
// that appear in at least one stored pair are listed.
func (h *HTTPHandlerImpl) ListDrugs(w http.ResponseWriter, r *http.Request) {
	registry := h.dataStore.GetRegistry()
	drugs := registry.AllKnownDrugs()

	if v := r.URL.Query().Get("interacting"); v != "" {
		interacting, err := strconv.ParseBool(v)
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, "interacting must be true or false")
			return
		}
		if interacting {
			drugs = slices.DeleteFunc(drugs, func(name string) bool {
				return !registry.HasInteractions(name)
			})
		}
	}

	search := strings.TrimSpace(r.URL.Query().Get("search"))
	if search != "" {
		if err := h.validator.ValidateDrugName(search); err != nil {
			logging.Warn("Unusual user input", "search", search)
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		needle := strings.ToLower(search)
		filtered := make([]string, 0, len(drugs))
		for _, name := range drugs {
			if strings.Contains(strings.ToLower(name), needle) {
				filtered = append(filtered, name)
			}
		}
		drugs = filtered
	}

	RespondWithJSON(w, http.StatusOK, DrugListResponse{Drugs: drugs, Total: len(drugs)})
}

// CheckInteractions checks the drugs given as repeated ?drug= parameters
func (h *HTTPHandlerImpl) CheckInteractions(w http.ResponseWriter, r *http.Request) {
	h.check(w, r, r.URL.Query()["drug"])
}

// CheckInteractionsJSON checks the drugs given in a {"drugs": [...]} body
func (h *HTTPHandlerImpl) CheckInteractionsJSON(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			RespondWithError(w, http.StatusBadRequest, "Request body is empty")
			return
		}
		RespondWithError(w, http.StatusBadRequest, "Invalid JSON body: expected {\"drugs\": [\"name\", ...]}")
		return
	}

	h.check(w, r, req.Drugs)
}

func (h *HTTPHandlerImpl) check(w http.ResponseWriter, r *http.Request, names []string) {
	if err := h.validator.ValidateSelection(names, h.maxSelection); err != nil {
		logging.Warn("Rejected drug selection", "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, span := tracer.Start(r.Context(), "interactions.check",
		trace.WithAttributes(attribute.Int("drugs.selected", len(names))),
	)
	defer span.End()

	report, err := resolver.New(h.dataStore.GetRegistry()).Resolve(names)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, resolver.ErrInsufficientSelection) {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		logging.Error("Interaction check failed", "error", err)
		RespondWithError(w, http.StatusInternalServerError, "Interaction check failed")
		return
	}

	span.SetAttributes(
		attribute.Int("pairs.checked", report.PairsChecked),
		attribute.Int("findings", len(report.Findings)),
		attribute.String("severity.highest", report.HighestSeverity.String()),
	)
	metrics.ObserveCheck(report.HighestSeverity, report.PairsChecked)

	RespondWithJSON(w, http.StatusOK, advisory.Summarize(report))
}

// LookupPair returns the severity of a single pair. Unknown pairs answer None.
func (h *HTTPHandlerImpl) LookupPair(w http.ResponseWriter, r *http.Request) {
	drugA := pathParam(r, "drugA")
	drugB := pathParam(r, "drugB")

	if drugA == drugB {
		RespondWithError(w, http.StatusBadRequest, resolver.ErrInsufficientSelection.Error())
		return
	}

	for _, name := range []string{drugA, drugB} {
		if err := h.validator.ValidateDrugName(name); err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	registry := h.dataStore.GetRegistry()
	severity := registry.SeverityOf(drugA, drugB)

	RespondWithJSON(w, http.StatusOK, PairResponse{
		DrugA:      drugA,
		DrugB:      drugB,
		Severity:   severity,
		Advice:     advisory.For(severity),
		DrugAKnown: registry.IsKnown(drugA),
		DrugBKnown: registry.IsKnown(drugB),
		Disclaimer: advisory.Disclaimer,
	})
}

// pathParam returns a decoded route parameter. chi routes on RawPath, and hands
// out still escaped segments, when the path carries escapes such as %2F.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw
	}
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// ListSeverities returns every severity level with its label and advice, lowest first
func (h *HTTPHandlerImpl) ListSeverities(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, advisory.All())
}
