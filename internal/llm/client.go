// Package llm talks to the hosted language models used for market commentary.
// Without an API key each client answers with a fixed demo text and performs
// no network call.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "cryptovibe/internal/errors"
)

// maxErrorBody caps how much of a provider error body ends up in messages.
const maxErrorBody = 512

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// postJSON sends payload and decodes a 2xx response into out. Every failure
// wraps ErrProviderUnavailable.
func postJSON(ctx context.Context, client *http.Client, endpoint string, headers map[string]string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: network error: %v", apperrors.ErrProviderUnavailable, redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: provider error: %d %s", apperrors.ErrProviderUnavailable,
			resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode error: %v", apperrors.ErrProviderUnavailable, err)
	}
	return nil
}

// redact drops the request URL from transport errors; the Gemini client
// carries the API key in the query string.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}
