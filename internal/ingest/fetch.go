package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedMedia reports an input whose media type is not delimited
// text. The check runs before the pipeline so binary documents never reach
// it.
var ErrUnsupportedMedia = errors.New("unsupported input media type")

// textExtensions are the statement file extensions accepted for ingestion.
var textExtensions = map[string]bool{
	".csv": true,
	".txt": true,
	".tsv": true,
}

// CheckMediaName gates an input by file name. Extensionless names pass so
// piped input keeps working.
func CheckMediaName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || textExtensions[ext] {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedMedia, ext)
}

// Fetcher acquires raw statement text from a source reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (string, error)
}

// FileFetcher reads statements from the local filesystem.
type FileFetcher struct{}

func (FileFetcher) Fetch(_ context.Context, ref string) (string, error) {
	if err := CheckMediaName(ref); err != nil {
		return "", err
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("read statement file: %w", err)
	}
	return string(data), nil
}

// HTTPFetcher downloads statements over HTTP. MaxBytes caps the response
// body; zero means no cap.
type HTTPFetcher struct {
	Client   *http.Client
	MaxBytes int64
}

func (f HTTPFetcher) Fetch(ctx context.Context, ref string) (string, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return "", fmt.Errorf("build statement request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch statement: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch statement: unexpected status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !isTextContentType(ct) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, ct)
	}

	var body io.Reader = resp.Body
	if f.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, f.MaxBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read statement body: %w", err)
	}
	return string(data), nil
}

func isTextContentType(ct string) bool {
	ct = strings.ToLower(ct)
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case "text/csv", "text/plain", "text/tab-separated-values", "application/csv", "application/octet-stream":
		return true
	}
	return strings.HasPrefix(ct, "text/")
}
