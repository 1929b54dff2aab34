package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 90 * time.Second

// Sampling settings for section drafts. A low temperature keeps answers
// close to the reference; maxOutputTokens fits one full HTML document.
const (
	draftTemperature = 0.2
	maxOutputTokens  = 8192
)

// ErrTruncated is returned when the provider stopped at the token limit.
// A cut-off section document cannot be parsed or sanitized.
var ErrTruncated = errors.New("answer truncated at the token limit")

// maxResponseBytes caps provider responses; a section document is far
// smaller.
const maxResponseBytes = 8 << 20

func newHTTPClient(cfg ProviderConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// postJSON sends body as JSON and decodes a 200 response into out. name
// prefixes errors.
func postJSON(ctx context.Context, client *http.Client, name, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s marshal: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s http: %w", name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s read body: %w", name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{Provider: name, Status: resp.StatusCode, Body: truncate(string(respBody), 500)}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s unmarshal: %w", name, err)
	}
	return nil
}

// APIError is a non-200 answer from a provider.
type APIError struct {
	Provider string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.Status, e.Body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
