package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/giygas/knowyourdrug/data"
	"github.com/giygas/knowyourdrug/interactions"
	"github.com/giygas/knowyourdrug/interfaces"
)

// mockParser returns a fixed result or error
type mockParser struct {
	result *interfaces.ParseResult
	err    error
	calls  int
}

func (m *mockParser) ParseInteractions(ctx context.Context) (*interfaces.ParseResult, error) {
	m.calls++
	return m.result, m.err
}

func (m *mockParser) Source() string {
	return "mock://interactions"
}

func validResult() *interfaces.ParseResult {
	return &interfaces.ParseResult{
		Interactions: []interactions.Interaction{
			{DrugA: "Sertraline", DrugB: "Tramadol", Severity: interactions.Major},
			{DrugA: "Tramadol", DrugB: "Sertraline", Severity: interactions.Major},
			{DrugA: "Omeprazole", DrugB: "Clopidogrel", Severity: interactions.Moderate},
		},
		Supplementary: []string{"Melatonin"},
	}
}

func TestStartWithoutSourcePublishesBuiltin(t *testing.T) {
	store := data.NewDataContainer()
	s := NewScheduler(store, nil, "06:00;18:00")
	defer s.Stop()

	if err := s.Start(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if store.GetRegistry() != interactions.Default() {
		t.Error("Expected the built-in registry to be published")
	}
	if store.GetLastUpdated().IsZero() {
		t.Error("Expected last updated to be set")
	}
	if store.GetQualityReport().DistinctPairs != 7 {
		t.Errorf("Expected quality report for the built-in table, got %+v", store.GetQualityReport())
	}
	if err := s.Reload(context.Background()); err == nil {
		t.Error("Reload without a source should fail")
	}
}

func TestStartWithSource(t *testing.T) {
	store := data.NewDataContainer()
	parser := &mockParser{result: validResult()}
	s := NewScheduler(store, parser, "06:00;18:00")
	defer s.Stop()

	if err := s.Start(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	registry := store.GetRegistry()
	if registry.PairCount() != 2 {
		t.Errorf("Expected 2 pairs from the source, got %d", registry.PairCount())
	}
	if registry.SeverityOf("Clopidogrel", "Omeprazole") != interactions.Moderate {
		t.Error("Expected Omeprazole/Clopidogrel to be Moderate")
	}
	if !registry.IsKnown("Melatonin") || !registry.IsKnown("Vitamin C") {
		t.Error("Expected source and built-in supplementary names to be known")
	}
	if store.GetQualityReport().DuplicatePairs != 1 {
		t.Errorf("Expected 1 duplicate row, got %d", store.GetQualityReport().DuplicatePairs)
	}
	if store.IsUpdating() {
		t.Error("Update flag should be cleared")
	}
}

func TestStartWithFailingSourceKeepsBuiltin(t *testing.T) {
	store := data.NewDataContainer()
	s := NewScheduler(store, &mockParser{err: errors.New("connection refused")}, "06:00")
	defer s.Stop()

	if err := s.Start(); err != nil {
		t.Fatalf("A failing source should not prevent startup, got %v", err)
	}
	if store.GetRegistry() != interactions.Default() {
		t.Error("Expected built-in registry to remain")
	}
}

func TestStartWithInvalidReloadTimes(t *testing.T) {
	s := NewScheduler(data.NewDataContainer(), &mockParser{result: validResult()}, "not-a-time")
	defer s.Stop()

	if err := s.Start(); err == nil {
		t.Error("Expected error for invalid reload times")
	}
}

func TestReloadRejectsBadTables(t *testing.T) {
	tests := []struct {
		name   string
		result *interfaces.ParseResult
	}{
		{"empty table", &interfaces.ParseResult{Supplementary: []string{"Zinc"}}},
		{"conflicting orientations", &interfaces.ParseResult{Interactions: []interactions.Interaction{
			{DrugA: "A1", DrugB: "B1", Severity: interactions.Major},
			{DrugA: "B1", DrugB: "A1", Severity: interactions.Minor},
		}}},
		{"self pair", &interfaces.ParseResult{Interactions: []interactions.Interaction{
			{DrugA: "A1", DrugB: "A1", Severity: interactions.Major},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := data.NewDataContainer()
			before := store.GetRegistry()
			s := NewScheduler(store, &mockParser{result: tt.result}, "06:00")

			if err := s.Reload(context.Background()); err == nil {
				t.Fatal("Expected reload error")
			}
			if store.GetRegistry() != before {
				t.Error("Failed reload must keep the previous snapshot")
			}
			if store.IsUpdating() {
				t.Error("Update flag should be cleared after failure")
			}
		})
	}
}

func TestReloadSkippedWhileUpdating(t *testing.T) {
	store := data.NewDataContainer()
	parser := &mockParser{result: validResult()}
	s := NewScheduler(store, parser, "06:00")

	if !store.BeginUpdate() {
		t.Fatal("BeginUpdate should succeed")
	}
	defer store.EndUpdate()

	if err := s.Reload(context.Background()); err != nil {
		t.Errorf("Skipped reload should not error, got %v", err)
	}
	if parser.calls != 0 {
		t.Error("Parser should not be called while another update runs")
	}
}

func TestMergeNames(t *testing.T) {
	got := mergeNames([]string{"B", "A"}, []string{"A", "C", "B"})
	expected := []string{"B", "A", "C"}
	if len(got) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Expected %v, got %v", expected, got)
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := NewScheduler(data.NewDataContainer(), nil, "06:00")
	s.Stop()
	s.Stop()
}
