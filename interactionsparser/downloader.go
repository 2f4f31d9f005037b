// Package interactionsparser reads an interaction table from a local TSV file or
// an http(s) URL so the registry can be refreshed without rebuilding the binary.
package interactionsparser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/giygas/knowyourdrug/logging"
	"golang.org/x/text/encoding/charmap"
)

// maxSourceSize bounds how much of a source is read into memory
const maxSourceSize = 10 * 1024 * 1024

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// fetchSource returns the raw bytes of the source, from disk or over HTTP
func fetchSource(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	if isRemote(source) {
		return download(ctx, client, source)
	}

	cleanPath := filepath.Clean(source)
	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cleanPath, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("Failed to close interactions file", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(file, maxSourceSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", cleanPath, err)
	}
	if len(body) > maxSourceSize {
		return nil, fmt.Errorf("%s is larger than %d bytes", cleanPath, maxSourceSize)
	}
	return body, nil
}

func download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	response, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: unexpected status %s", url, response.Status)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxSourceSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > maxSourceSize {
		return nil, fmt.Errorf("%s returned more than %d bytes", url, maxSourceSize)
	}
	return body, nil
}

// decodeToUTF8 returns a reader over the content as UTF-8.
// Tables exported from older spreadsheets are often ISO-8859-1.
func decodeToUTF8(body []byte) io.Reader {
	if utf8.Valid(body) {
		return bytes.NewReader(body)
	}

	logging.Debug("Interactions source is not UTF-8, decoding as ISO-8859-1")
	return charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(body))
}
