package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/giygas/knowyourdrug/interactions"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// value reads the current value of a counter or gauge
func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatalf("Failed to read metric: %v", err)
	}
	if out.Counter != nil {
		return out.GetCounter().GetValue()
	}
	return out.GetGauge().GetValue()
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/v1/interactions/{drugA}/{drugB}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	pattern := "/v1/interactions/{drugA}/{drugB}"
	before := value(t, HTTPRequestTotals.WithLabelValues("GET", pattern, "200"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/interactions/Aspirin/Warfarin", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/interactions/Ibuprofen/Warfarin", nil))

	after := value(t, HTTPRequestTotals.WithLabelValues("GET", pattern, "200"))
	if after-before != 2 {
		t.Errorf("Expected 2 requests under the route pattern, got %v", after-before)
	}
	if value(t, HTTPRequestInFlight) != 0 {
		t.Error("In-flight gauge should return to zero")
	}
}

func TestMetricsMiddlewareWithoutRouter(t *testing.T) {
	handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := value(t, HTTPRequestTotals.WithLabelValues("GET", "unmatched", "418"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/anything", nil))

	if got := value(t, HTTPRequestTotals.WithLabelValues("GET", "unmatched", "418")); got-before != 1 {
		t.Errorf("Expected unmatched request to be counted, got %v", got-before)
	}
}

func TestObserveCheck(t *testing.T) {
	before := value(t, InteractionChecksTotal.WithLabelValues("Major"))
	pairsBefore := value(t, PairsCheckedTotal)

	ObserveCheck(interactions.Major, 3)

	if got := value(t, InteractionChecksTotal.WithLabelValues("Major")); got-before != 1 {
		t.Errorf("Expected Major counter to increase by 1, got %v", got-before)
	}
	if got := value(t, PairsCheckedTotal); got-pairsBefore != 3 {
		t.Errorf("Expected 3 pairs, got %v", got-pairsBefore)
	}
}

func TestObserveRegistry(t *testing.T) {
	reg := interactions.Default()
	ObserveRegistry(reg)

	if got := value(t, RegistryPairs); got != float64(reg.PairCount()) {
		t.Errorf("Expected %d pairs, got %v", reg.PairCount(), got)
	}
	if got := value(t, RegistryDrugs); got != float64(reg.DrugCount()) {
		t.Errorf("Expected %d drugs, got %v", reg.DrugCount(), got)
	}
}
