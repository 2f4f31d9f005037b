package interactions

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrConflictingSeverity = errors.New("conflicting severities for the same pair")
	ErrSelfInteraction     = errors.New("a drug cannot interact with itself")
	ErrNoSeverity          = errors.New("stored interactions must have a severity above None")
)

// Interaction is one stored (drugA, drugB, severity) triple
type Interaction struct {
	DrugA    string   `json:"drug_a"`
	DrugB    string   `json:"drug_b"`
	Severity Severity `json:"severity"`
}

// pairKey is the canonical (sorted) form of an unordered pair
type pairKey struct {
	first  string
	second string
}

func newPairKey(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{first: a, second: b}
}

// Registry is an immutable table of pairwise interaction severities plus the set
// of drug names known to the checker. It is safe for concurrent use.
type Registry struct {
	pairs         map[pairKey]Severity
	interacting   map[string]struct{}
	supplementary map[string]struct{}
	known         []string
}

// New builds a registry from interaction triples and a list of drug names that
// carry no interaction data. A pair may be given in both orientations as long as
// the severities agree.
func New(triples []Interaction, supplementary []string) (*Registry, error) {
	r := &Registry{
		pairs:         make(map[pairKey]Severity, len(triples)),
		interacting:   make(map[string]struct{}),
		supplementary: make(map[string]struct{}, len(supplementary)),
	}

	for _, t := range triples {
		if t.DrugA == t.DrugB {
			return nil, fmt.Errorf("%w: %q", ErrSelfInteraction, t.DrugA)
		}
		if !t.Severity.Valid() || t.Severity == None {
			return nil, fmt.Errorf("%w: %q + %q has %s", ErrNoSeverity, t.DrugA, t.DrugB, t.Severity)
		}

		key := newPairKey(t.DrugA, t.DrugB)
		if existing, ok := r.pairs[key]; ok && existing != t.Severity {
			return nil, fmt.Errorf("%w: %q + %q stored as %s and %s",
				ErrConflictingSeverity, key.first, key.second, existing, t.Severity)
		}

		r.pairs[key] = t.Severity
		r.interacting[t.DrugA] = struct{}{}
		r.interacting[t.DrugB] = struct{}{}
	}

	for _, name := range supplementary {
		if name == "" {
			continue
		}
		r.supplementary[name] = struct{}{}
	}

	r.known = make([]string, 0, len(r.interacting)+len(r.supplementary))
	for name := range r.interacting {
		r.known = append(r.known, name)
	}
	for name := range r.supplementary {
		if _, dup := r.interacting[name]; !dup {
			r.known = append(r.known, name)
		}
	}
	sort.Strings(r.known)

	return r, nil
}

// SeverityOf returns the stored severity for the pair in either orientation, or
// None when the pair is unknown.
func (r *Registry) SeverityOf(drugA, drugB string) Severity {
	if r == nil || drugA == drugB {
		return None
	}
	return r.pairs[newPairKey(drugA, drugB)]
}

// AllKnownDrugs returns every known drug name sorted lexicographically.
// The returned slice is a copy.
func (r *Registry) AllKnownDrugs() []string {
	if r == nil {
		return []string{}
	}
	out := make([]string, len(r.known))
	copy(out, r.known)
	return out
}

// IsKnown reports whether name is part of the known drug set
func (r *Registry) IsKnown(name string) bool {
	if r == nil {
		return false
	}
	if _, ok := r.interacting[name]; ok {
		return true
	}
	_, ok := r.supplementary[name]
	return ok
}

// HasInteractions reports whether name appears in at least one stored pair
func (r *Registry) HasInteractions(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.interacting[name]
	return ok
}

// Interactions returns the stored pairs in canonical orientation, sorted by drug names
func (r *Registry) Interactions() []Interaction {
	if r == nil {
		return []Interaction{}
	}

	out := make([]Interaction, 0, len(r.pairs))
	for key, sev := range r.pairs {
		out = append(out, Interaction{DrugA: key.first, DrugB: key.second, Severity: sev})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DrugA != out[j].DrugA {
			return out[i].DrugA < out[j].DrugA
		}
		return out[i].DrugB < out[j].DrugB
	})
	return out
}

// PairCount returns the number of distinct stored pairs
func (r *Registry) PairCount() int {
	if r == nil {
		return 0
	}
	return len(r.pairs)
}

// DrugCount returns the size of the known drug set
func (r *Registry) DrugCount() int {
	if r == nil {
		return 0
	}
	return len(r.known)
}
