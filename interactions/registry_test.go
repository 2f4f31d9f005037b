package interactions

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
)

func TestDefaultRegistryBuilds(t *testing.T) {
	r := Default()
	if r == nil {
		t.Fatal("Default returned nil")
	}

	if r.PairCount() != 7 {
		t.Errorf("Expected 7 distinct pairs, got %d", r.PairCount())
	}

	if Default() != r {
		t.Error("Default should return the same registry on every call")
	}
}

func TestSeverityOfIsSymmetric(t *testing.T) {
	r := Default()

	for _, triple := range BuiltinInteractions() {
		forward := r.SeverityOf(triple.DrugA, triple.DrugB)
		backward := r.SeverityOf(triple.DrugB, triple.DrugA)

		if forward != triple.Severity {
			t.Errorf("SeverityOf(%q, %q) = %s, expected %s", triple.DrugA, triple.DrugB, forward, triple.Severity)
		}
		if backward != forward {
			t.Errorf("SeverityOf not symmetric for %q/%q: %s vs %s", triple.DrugA, triple.DrugB, forward, backward)
		}
	}
}

func TestSeverityOfKnownPairs(t *testing.T) {
	r := Default()

	tests := []struct {
		a, b     string
		expected Severity
	}{
		{"Aspirin", "Warfarin", Major},
		{"Warfarin", "Aspirin", Major},
		{"Aspirin", "Ibuprofen", Moderate},
		{"Ibuprofen", "Warfarin", Major},
		{"Aspirin", "Methotrexate", Major},
		{"Methotrexate", "Aspirin", Major},
		{"Clarithromycin", "Warfarin", Major},
		{"Paracetamol (Acetaminophen)", "Warfarin", Moderate},
		{"Prednisolone", "Ibuprofen", Moderate},
		{"Vitamin C", "Zinc supplements", None},
		{"Paracetamol", "Warfarin", None},
		{"aspirin", "warfarin", None},
		{"Aspirin", "Aspirin", None},
	}

	for _, tt := range tests {
		t.Run(tt.a+"+"+tt.b, func(t *testing.T) {
			if got := r.SeverityOf(tt.a, tt.b); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestSeverityOfUnknownDrug(t *testing.T) {
	r := Default()

	for _, other := range append(r.AllKnownDrugs(), "", "Unobtainium") {
		if got := r.SeverityOf("Unobtainium", other); got != None {
			t.Errorf("Unknown drug paired with %q should be None, got %s", other, got)
		}
	}
}

func TestAllKnownDrugs(t *testing.T) {
	r := Default()
	drugs := r.AllKnownDrugs()

	if !sort.StringsAreSorted(drugs) {
		t.Error("AllKnownDrugs should be sorted")
	}

	seen := make(map[string]bool)
	for _, d := range drugs {
		if seen[d] {
			t.Errorf("Duplicate drug %q in known set", d)
		}
		seen[d] = true
	}

	// Keys, partners and supplementary names all belong to the set
	for _, name := range []string{"Aspirin", "Methotrexate", "Paracetamol (Acetaminophen)", "Vitamin C", "Gloves"} {
		if !seen[name] {
			t.Errorf("Expected %q in known drugs", name)
		}
		if !r.IsKnown(name) {
			t.Errorf("IsKnown(%q) should be true", name)
		}
	}

	if r.IsKnown("Paracetamol") {
		t.Error("Paracetamol without form suffix should not be known")
	}

	expectedCount := len(seen)
	if r.DrugCount() != expectedCount {
		t.Errorf("Expected DrugCount %d, got %d", expectedCount, r.DrugCount())
	}

	// Mutating the copy must not affect the registry
	drugs[0] = "Tampered"
	if r.AllKnownDrugs()[0] == "Tampered" {
		t.Error("AllKnownDrugs should return a copy")
	}
}

func TestSupplementaryDrugsHaveNoInteractions(t *testing.T) {
	r := Default()

	if r.HasInteractions("Vitamin C") {
		t.Error("Vitamin C should not have interactions")
	}
	if !r.HasInteractions("Methotrexate") {
		t.Error("Methotrexate appears as a partner and should have interactions")
	}
}

func TestNewRejectsInvalidTriples(t *testing.T) {
	tests := []struct {
		name        string
		triples     []Interaction
		expectedErr error
	}{
		{
			name: "conflicting orientations",
			triples: []Interaction{
				{DrugA: "A", DrugB: "B", Severity: Major},
				{DrugA: "B", DrugB: "A", Severity: Minor},
			},
			expectedErr: ErrConflictingSeverity,
		},
		{
			name:        "self pair",
			triples:     []Interaction{{DrugA: "A", DrugB: "A", Severity: Major}},
			expectedErr: ErrSelfInteraction,
		},
		{
			name:        "none severity",
			triples:     []Interaction{{DrugA: "A", DrugB: "B", Severity: None}},
			expectedErr: ErrNoSeverity,
		},
		{
			name:        "out of range severity",
			triples:     []Interaction{{DrugA: "A", DrugB: "B", Severity: Severity(9)}},
			expectedErr: ErrNoSeverity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.triples, nil)
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("Expected %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

func TestNewAcceptsAgreeingOrientations(t *testing.T) {
	r, err := New([]Interaction{
		{DrugA: "A", DrugB: "B", Severity: Minor},
		{DrugA: "B", DrugB: "A", Severity: Minor},
	}, []string{"C", "", "A"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if r.PairCount() != 1 {
		t.Errorf("Expected 1 pair, got %d", r.PairCount())
	}
	if r.SeverityOf("B", "A") != Minor {
		t.Errorf("Expected Minor, got %s", r.SeverityOf("B", "A"))
	}

	known := r.AllKnownDrugs()
	if len(known) != 3 || known[0] != "A" || known[1] != "B" || known[2] != "C" {
		t.Errorf("Expected [A B C], got %v", known)
	}
}

func TestInteractionsCanonicalOrder(t *testing.T) {
	r, err := New([]Interaction{
		{DrugA: "Zeta", DrugB: "Alpha", Severity: Major},
		{DrugA: "Beta", DrugB: "Alpha", Severity: Moderate},
	}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got := r.Interactions()
	if len(got) != 2 {
		t.Fatalf("Expected 2 interactions, got %d", len(got))
	}
	if got[0] != (Interaction{DrugA: "Alpha", DrugB: "Beta", Severity: Moderate}) {
		t.Errorf("Unexpected first interaction %+v", got[0])
	}
	if got[1] != (Interaction{DrugA: "Alpha", DrugB: "Zeta", Severity: Major}) {
		t.Errorf("Unexpected second interaction %+v", got[1])
	}
}

func TestNilRegistryIsTotal(t *testing.T) {
	var r *Registry

	if r.SeverityOf("Aspirin", "Warfarin") != None {
		t.Error("nil registry should return None")
	}
	if len(r.AllKnownDrugs()) != 0 || r.PairCount() != 0 || r.DrugCount() != 0 || r.IsKnown("Aspirin") {
		t.Error("nil registry should behave as empty")
	}
}

func TestConcurrentReads(t *testing.T) {
	r := Default()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.SeverityOf("Warfarin", "Ibuprofen") != Major {
				t.Error("Expected Major under concurrent access")
			}
			_ = r.AllKnownDrugs()
		}()
	}
	wg.Wait()
}

func TestSeverityOrderingAndParsing(t *testing.T) {
	if !(None < Minor && Minor < Moderate && Moderate < Major) {
		t.Fatal("Severity order must be None < Minor < Moderate < Major")
	}

	if Max(Minor, Major) != Major || Max(Moderate, None) != Moderate {
		t.Error("Max returned the wrong level")
	}

	for _, sev := range Severities {
		parsed, err := ParseSeverity(sev.String())
		if err != nil || parsed != sev {
			t.Errorf("ParseSeverity(%q) = %s, %v", sev.String(), parsed, err)
		}
	}

	if parsed, err := ParseSeverity("  major "); err != nil || parsed != Major {
		t.Errorf("ParseSeverity should be case-insensitive, got %s, %v", parsed, err)
	}

	if _, err := ParseSeverity("Severe"); err == nil {
		t.Error("Expected error for unknown severity")
	}

	if Severity(7).String() != "Severity(7)" {
		t.Errorf("Unexpected string for invalid severity: %s", Severity(7).String())
	}
}

func TestSeverityJSON(t *testing.T) {
	data, err := json.Marshal(Interaction{DrugA: "Aspirin", DrugB: "Warfarin", Severity: Major})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	expected := `{"drug_a":"Aspirin","drug_b":"Warfarin","severity":"Major"}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}

	var sev Severity
	if err := json.Unmarshal([]byte(`"moderate"`), &sev); err != nil || sev != Moderate {
		t.Errorf("Unmarshal moderate: got %s, %v", sev, err)
	}

	if err := json.Unmarshal([]byte(`3`), &sev); err == nil {
		t.Error("Expected error when unmarshalling a number")
	}

	if _, err := json.Marshal(Severity(-1)); err == nil {
		t.Error("Expected error when marshalling an invalid severity")
	}
}
