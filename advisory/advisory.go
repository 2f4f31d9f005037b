// Package advisory maps interaction severities to the labels and advice shown to users.
package advisory

import (
	"github.com/giygas/knowyourdrug/interactions"
	"github.com/giygas/knowyourdrug/resolver"
)

const (
	// Disclaimer is shown with every result
	Disclaimer = "This tool is for informational purposes only and is not a substitute for professional medical advice. Always consult a healthcare professional."

	// LimitedDatabaseCaveat accompanies an all clear result
	LimitedDatabaseCaveat = "Remember, this checker uses a limited database. Always consult a healthcare professional."
)

// Tone tells a presentation layer how to style a result
type Tone string

const (
	ToneWarning Tone = "warning"
	ToneCaution Tone = "caution"
	ToneInfo    Tone = "info"
	ToneSuccess Tone = "success"
)

// Advice is the display text for one severity
type Advice struct {
	Severity interactions.Severity `json:"severity"`
	Label    string                `json:"label"`
	Message  string                `json:"message"`
	Tone     Tone                  `json:"tone"`
	Caveat   string                `json:"caveat,omitempty"`
}

var advice = map[interactions.Severity]Advice{
	interactions.Major: {
		Severity: interactions.Major,
		Label:    "MAJOR Risk",
		Message:  "Immediately consult a doctor or pharmacist. Do not take this combination without professional guidance. This is a critical interaction.",
		Tone:     ToneWarning,
	},
	interactions.Moderate: {
		Severity: interactions.Moderate,
		Label:    "Moderate Risk",
		Message:  "Consult a healthcare provider. Dose adjustment or close monitoring may be required. Be aware of increased risk.",
		Tone:     ToneCaution,
	},
	interactions.Minor: {
		Severity: interactions.Minor,
		Label:    "Minor Risk",
		Message:  "Generally safe, but monitor for symptoms. Always inform your doctor about all medications.",
		Tone:     ToneInfo,
	},
	interactions.None: {
		Severity: interactions.None,
		Label:    "All Clear",
		Message:  "No major or known interactions detected among the selected drugs in our database.",
		Tone:     ToneSuccess,
		Caveat:   LimitedDatabaseCaveat,
	},
}

// For returns the advice for a severity. Unknown values get the None advice.
func For(sev interactions.Severity) Advice {
	if a, ok := advice[sev]; ok {
		return a
	}
	return advice[interactions.None]
}

// Label is a shortcut for For(sev).Label
func Label(sev interactions.Severity) string {
	return For(sev).Label
}

// All returns the advice for every severity, lowest first
func All() []Advice {
	out := make([]Advice, 0, len(interactions.Severities))
	for _, sev := range interactions.Severities {
		out = append(out, For(sev))
	}
	return out
}

// LabeledFinding is a finding with its display label
type LabeledFinding struct {
	resolver.Finding
	Label string `json:"label"`
}

// Summary is a report ready to be rendered
type Summary struct {
	Drugs           []string              `json:"drugs"`
	PairsChecked    int                   `json:"pairs_checked"`
	HighestSeverity interactions.Severity `json:"highest_severity"`
	Advice          Advice                `json:"advice"`
	Interactions    []LabeledFinding      `json:"interactions"`
	Disclaimer      string                `json:"disclaimer"`
}

// Summarize attaches labels and the overall advice to a report
func Summarize(report resolver.Report) Summary {
	labeled := make([]LabeledFinding, 0, len(report.Findings))
	for _, f := range report.Findings {
		labeled = append(labeled, LabeledFinding{Finding: f, Label: Label(f.Severity)})
	}

	return Summary{
		Drugs:           report.Drugs,
		PairsChecked:    report.PairsChecked,
		HighestSeverity: report.HighestSeverity,
		Advice:          For(report.HighestSeverity),
		Interactions:    labeled,
		Disclaimer:      Disclaimer,
	}
}
