// Package resolver checks a selection of drugs against an interaction table:
// every unordered pair is looked up once and the worst severity is reported.
package resolver

import (
	"errors"

	"github.com/giygas/knowyourdrug/interactions"
)

// MinSelection is the smallest number of distinct drugs a check accepts
const MinSelection = 2

// ErrInsufficientSelection is matched by errors.Is for any ValidationError
// raised because fewer than MinSelection distinct drugs were given.
var ErrInsufficientSelection = errors.New("select at least two different drugs to check for interactions")

// ValidationErrorKind identifies a user input problem
type ValidationErrorKind string

const InsufficientSelection ValidationErrorKind = "InsufficientSelection"

// ValidationError is returned for invalid user selections. It is recoverable:
// callers should ask the user for a new selection.
type ValidationError struct {
	Kind     ValidationErrorKind
	Distinct int
}

func (e *ValidationError) Error() string {
	return ErrInsufficientSelection.Error()
}

// Is lets errors.Is match the sentinel for the corresponding kind
func (e *ValidationError) Is(target error) bool {
	return e.Kind == InsufficientSelection && target == ErrInsufficientSelection
}

// SeverityLookup is the part of the registry the resolver needs
type SeverityLookup interface {
	SeverityOf(drugA, drugB string) interactions.Severity
}

// Finding is one pair with a known interaction
type Finding struct {
	DrugA    string                `json:"drug_a"`
	DrugB    string                `json:"drug_b"`
	Severity interactions.Severity `json:"severity"`
}

// Report is the outcome of one check. Findings follow pair enumeration order;
// HighestSeverity is None exactly when Findings is empty.
type Report struct {
	Drugs           []string              `json:"drugs"`
	Findings        []Finding             `json:"findings"`
	HighestSeverity interactions.Severity `json:"highest_severity"`
	PairsChecked    int                   `json:"pairs_checked"`
}

// Resolver runs checks against a fixed lookup
type Resolver struct {
	lookup SeverityLookup
}

// New creates a resolver bound to lookup
func New(lookup SeverityLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve deduplicates the selection, checks every unordered pair once and
// aggregates the findings. Unknown names are accepted and simply never match.
func (r *Resolver) Resolve(selected []string) (Report, error) {
	drugs := Dedupe(selected)
	if len(drugs) < MinSelection {
		return Report{}, &ValidationError{Kind: InsufficientSelection, Distinct: len(drugs)}
	}

	report := Report{
		Drugs:           drugs,
		Findings:        []Finding{},
		HighestSeverity: interactions.None,
	}

	for i := 0; i < len(drugs); i++ {
		for j := i + 1; j < len(drugs); j++ {
			report.PairsChecked++

			severity := r.lookup.SeverityOf(drugs[i], drugs[j])
			if severity == interactions.None {
				continue
			}

			report.Findings = append(report.Findings, Finding{
				DrugA:    drugs[i],
				DrugB:    drugs[j],
				Severity: severity,
			})
			report.HighestSeverity = interactions.Max(report.HighestSeverity, severity)
		}
	}

	return report, nil
}

// Resolve checks the selection against the built-in registry
func Resolve(selected []string) (Report, error) {
	return New(interactions.Default()).Resolve(selected)
}

// Dedupe removes repeated names, keeping the first occurrence of each
func Dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// PairCount is the number of unordered pairs among n distinct drugs
func PairCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}
