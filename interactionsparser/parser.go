package interactionsparser

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/giygas/knowyourdrug/interfaces"
	"github.com/giygas/knowyourdrug/logging"
)

// Compile-time check to ensure InteractionsParser implements Parser interface
var _ interfaces.Parser = (*InteractionsParser)(nil)

// InteractionsParser implements the Parser interface for a file path or URL
type InteractionsParser struct {
	source string
	client *http.Client
}

// NewInteractionsParser creates a parser reading from source
func NewInteractionsParser(source string) *InteractionsParser {
	return &InteractionsParser{
		source: source,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithHTTPClient replaces the client used for remote sources
func (p *InteractionsParser) WithHTTPClient(client *http.Client) *InteractionsParser {
	p.client = client
	return p
}

// Source returns the configured location
func (p *InteractionsParser) Source() string {
	return p.source
}

// ParseInteractions fetches and parses the whole source
func (p *InteractionsParser) ParseInteractions(ctx context.Context) (*interfaces.ParseResult, error) {
	if p.source == "" {
		return nil, fmt.Errorf("no interactions source configured")
	}

	start := time.Now()

	body, err := fetchSource(ctx, p.client, p.source)
	if err != nil {
		return nil, err
	}

	result, err := parseTSV(decodeToUTF8(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", p.source, err)
	}

	logging.Info("Interactions source parsed",
		"source", p.source,
		"interactions", len(result.Interactions),
		"supplementary", len(result.Supplementary),
		"skipped", result.Skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
