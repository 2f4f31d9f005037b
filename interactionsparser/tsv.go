package interactionsparser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/giygas/knowyourdrug/interactions"
	"github.com/giygas/knowyourdrug/interfaces"
	"github.com/giygas/knowyourdrug/logging"
)

// parseTSV reads lines of the form
//
//	drugA<TAB>drugB<TAB>severity[<TAB>notes]
//
// A line with a single column adds a name with no interactions.
// Empty lines and lines starting with # are ignored.
func parseTSV(r io.Reader) (*interfaces.ParseResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1*1024*1024)

	result := &interfaces.ParseResult{
		Interactions:  []interactions.Interaction{},
		Supplementary: []string{},
	}
	skippedMissingColumns := 0
	skippedSeverityErrors := 0

	for scanner.Scan() {
		result.Lines++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		if len(fields) == 1 {
			result.Supplementary = append(result.Supplementary, fields[0])
			continue
		}

		if len(fields) < 3 || fields[0] == "" || fields[1] == "" {
			skippedMissingColumns++
			continue
		}

		severity, err := interactions.ParseSeverity(fields[2])
		if err != nil || severity == interactions.None {
			skippedSeverityErrors++
			continue
		}

		result.Interactions = append(result.Interactions, interactions.Interaction{
			DrugA:    fields[0],
			DrugB:    fields[1],
			Severity: severity,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}

	result.Skipped = skippedMissingColumns + skippedSeverityErrors
	if result.Skipped > 0 {
		logging.Warn("Skipped malformed interaction lines",
			"missing_columns", skippedMissingColumns,
			"bad_severity", skippedSeverityErrors,
		)
	}

	return result, nil
}
