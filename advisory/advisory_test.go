package advisory

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/giygas/knowyourdrug/interactions"
	"github.com/giygas/knowyourdrug/resolver"
)

func TestForEverySeverity(t *testing.T) {
	tests := []struct {
		severity      interactions.Severity
		labelContains string
		tone          Tone
		hasCaveat     bool
	}{
		{interactions.Major, "MAJOR", ToneWarning, false},
		{interactions.Moderate, "Moderate", ToneCaution, false},
		{interactions.Minor, "Minor", ToneInfo, false},
		{interactions.None, "All Clear", ToneSuccess, true},
	}

	for _, tt := range tests {
		t.Run(tt.severity.String(), func(t *testing.T) {
			a := For(tt.severity)

			if a.Severity != tt.severity {
				t.Errorf("Expected severity %s, got %s", tt.severity, a.Severity)
			}
			if !strings.Contains(a.Label, tt.labelContains) {
				t.Errorf("Expected label to contain %q, got %q", tt.labelContains, a.Label)
			}
			if a.Tone != tt.tone {
				t.Errorf("Expected tone %s, got %s", tt.tone, a.Tone)
			}
			if a.Message == "" {
				t.Error("Message should not be empty")
			}
			if (a.Caveat != "") != tt.hasCaveat {
				t.Errorf("Unexpected caveat %q", a.Caveat)
			}
		})
	}
}

func TestMajorAdviceForbidsCombination(t *testing.T) {
	msg := For(interactions.Major).Message
	if !strings.Contains(msg, "consult a doctor or pharmacist") || !strings.Contains(msg, "Do not take this combination") {
		t.Errorf("Major advice should tell the user to consult and not combine, got %q", msg)
	}

	if !strings.Contains(For(interactions.Moderate).Message, "monitoring") {
		t.Error("Moderate advice should mention monitoring")
	}
}

func TestForUnknownSeverityFallsBackToNone(t *testing.T) {
	if For(interactions.Severity(42)).Severity != interactions.None {
		t.Error("Unknown severity should fall back to the None advice")
	}
}

func TestAllIsOrdered(t *testing.T) {
	all := All()
	if len(all) != 4 {
		t.Fatalf("Expected 4 entries, got %d", len(all))
	}
	for i, sev := range interactions.Severities {
		if all[i].Severity != sev {
			t.Errorf("Entry %d: expected %s, got %s", i, sev, all[i].Severity)
		}
	}
}

func TestSummarize(t *testing.T) {
	report, err := resolver.Resolve([]string{"Aspirin", "Ibuprofen", "Warfarin"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	summary := Summarize(report)

	if summary.HighestSeverity != interactions.Major {
		t.Errorf("Expected Major, got %s", summary.HighestSeverity)
	}
	if summary.Advice.Label != For(interactions.Major).Label {
		t.Errorf("Expected Major advice, got %+v", summary.Advice)
	}
	if len(summary.Interactions) != 3 {
		t.Fatalf("Expected 3 interactions, got %d", len(summary.Interactions))
	}
	if summary.Interactions[0].Label != "Moderate Risk" {
		t.Errorf("Expected Moderate label on Aspirin/Ibuprofen, got %q", summary.Interactions[0].Label)
	}
	if summary.Disclaimer != Disclaimer {
		t.Error("Disclaimer missing")
	}

	data, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	body := string(data)
	for _, fragment := range []string{`"highest_severity":"Major"`, `"drug_a":"Aspirin"`, `"label":"Moderate Risk"`, `"pairs_checked":3`} {
		if !strings.Contains(body, fragment) {
			t.Errorf("Expected JSON to contain %s, got %s", fragment, body)
		}
	}
}

func TestSummarizeAllClear(t *testing.T) {
	report, err := resolver.Resolve([]string{"Vitamin C", "Zinc supplements"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	summary := Summarize(report)
	if summary.Advice.Tone != ToneSuccess || summary.Advice.Caveat != LimitedDatabaseCaveat {
		t.Errorf("Expected all clear advice with caveat, got %+v", summary.Advice)
	}
	if summary.Interactions == nil || len(summary.Interactions) != 0 {
		t.Errorf("Expected empty interactions slice, got %#v", summary.Interactions)
	}
}
