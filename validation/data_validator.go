// Package validation provides input and data validation for the interaction checker.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/giygas/knowyourdrug/interactions"
	"github.com/giygas/knowyourdrug/interfaces"
	"github.com/giygas/knowyourdrug/resolver"
)

// maxDrugNameBytes bounds a single name; the longest built-in name is well under it
const maxDrugNameBytes = 200

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateDrugName only enforces limits no real drug name can hit. Names are
// free text: unknown spellings, brand symbols and punctuation are accepted
// and simply match nothing.
func (v *DataValidatorImpl) ValidateDrugName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("drug name cannot be empty")
	}

	if len(name) > maxDrugNameBytes {
		return fmt.Errorf("drug name too long: maximum %d bytes", maxDrugNameBytes)
	}

	if !utf8.ValidString(name) {
		return fmt.Errorf("drug name is not valid UTF-8")
	}

	return nil
}

// ValidateSelection checks the distinct names of a selection and caps their count.
// Selections with fewer than two distinct names pass untouched so that the
// resolver reports them as InsufficientSelection whatever they contain.
func (v *DataValidatorImpl) ValidateSelection(names []string, max int) error {
	distinct := resolver.Dedupe(names)
	if len(distinct) < resolver.MinSelection {
		return nil
	}

	if max > 0 && len(distinct) > max {
		return fmt.Errorf("too many drugs selected: maximum %d allowed, got %d", max, len(distinct))
	}

	for i, name := range distinct {
		if err := v.ValidateDrugName(name); err != nil {
			return fmt.Errorf("drug %d: %w", i+1, err)
		}
	}

	return nil
}

// ReportDataQuality inspects raw triples before a registry is built from them
func (v *DataValidatorImpl) ReportDataQuality(triples []interactions.Interaction, supplementary []string) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		TotalTriples:     len(triples),
		SelfPairs:        []string{},
		ConflictingPairs: []string{},
	}

	type pair struct{ a, b string }
	seen := make(map[pair]interactions.Severity, len(triples))
	conflicts := make(map[pair]bool)
	partners := make(map[string]bool)

	for _, t := range triples {
		if t.DrugA == t.DrugB {
			report.SelfPairs = append(report.SelfPairs, t.DrugA)
			continue
		}

		key := pair{t.DrugA, t.DrugB}
		if key.b < key.a {
			key.a, key.b = key.b, key.a
		}
		partners[t.DrugA] = true
		partners[t.DrugB] = true

		existing, ok := seen[key]
		switch {
		case !ok:
			seen[key] = t.Severity
		case existing != t.Severity:
			conflicts[key] = true
		default:
			report.DuplicatePairs++
		}
	}

	for key := range conflicts {
		report.ConflictingPairs = append(report.ConflictingPairs, key.a+" + "+key.b)
	}
	sort.Strings(report.ConflictingPairs)
	report.DistinctPairs = len(seen)

	for _, name := range supplementary {
		if !partners[name] {
			report.DrugsWithoutPartners++
		}
	}

	return report
}
