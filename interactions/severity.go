// Package interactions holds the drug interaction registry: the severity scale,
// the pair -> severity table and the set of known drug names.
package interactions

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity is the risk tier attached to an interaction. The zero value is None.
type Severity int

const (
	None Severity = iota
	Minor
	Moderate
	Major
)

// Severities lists every level from lowest to highest
var Severities = []Severity{None, Minor, Moderate, Major}

var severityNames = [...]string{"None", "Minor", "Moderate", "Major"}

func (s Severity) String() string {
	if s < None || s > Major {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// Valid reports whether s is one of the defined levels
func (s Severity) Valid() bool {
	return s >= None && s <= Major
}

// Max returns the higher of the two severities
func Max(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}

// ParseSeverity converts a case-insensitive level name into a Severity.
func ParseSeverity(s string) (Severity, error) {
	trimmed := strings.TrimSpace(s)
	for i, name := range severityNames {
		if strings.EqualFold(trimmed, name) {
			return Severity(i), nil
		}
	}
	return None, fmt.Errorf("unknown severity %q", s)
}

// MarshalJSON encodes the severity as its name
func (s Severity) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid severity %d", int(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the level name in any case
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("severity must be a string: %w", err)
	}

	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
