package bias

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/newslens/internal/logging"
)

// Lookup classifies a source via an external media-bias API. Backends are
// optional: the classifier works entirely from its built-in table when no
// lookup is configured.
type Lookup interface {
	// Available returns true if the backend is configured and usable.
	Available() bool

	// Classify returns the rating for a normalized source key.
	Classify(ctx context.Context, source string) (Rating, error)

	// Name returns the backend identifier for logging.
	Name() string
}

// NewLookup creates a lookup backend from configuration. Returns nil when
// no endpoint or key is set, which the classifier treats as "no external
// classification available".
func NewLookup(endpoint, apiKey string) Lookup {
	if endpoint == "" || apiKey == "" {
		logging.Debug("no bias lookup backend configured")
		return nil
	}
	lk := NewHTTPLookup(endpoint, apiKey)
	logging.Info("bias lookup initialized", "backend", lk.Name())
	return lk
}

// HTTPLookup queries a media-bias rating API over HTTP. Requests are rate
// limited to one per second and retried on transient failures.
type HTTPLookup struct {
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewHTTPLookup creates a lookup against the given endpoint.
func NewHTTPLookup(endpoint, apiKey string) *HTTPLookup {
	return &HTTPLookup{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 15 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Available returns true if the endpoint and API key are configured.
func (l *HTTPLookup) Available() bool {
	return l.endpoint != "" && l.apiKey != ""
}

// Name returns the backend identifier for logging.
func (l *HTTPLookup) Name() string {
	return "http/" + l.endpoint
}

// Classify posts the source key to the rating API and parses the returned
// (bias, credibility) pair. Ratings outside their documented domains are
// rejected rather than cached.
func (l *HTTPLookup) Classify(ctx context.Context, source string) (Rating, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return Rating{}, fmt.Errorf("rate limiter: %w", err)
	}

	reqBody, err := json.Marshal(lookupRequest{Source: source})
	if err != nil {
		return Rating{}, fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := l.doWithRetry(ctx, reqBody)
	if err != nil {
		return Rating{}, err
	}

	var resp lookupResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return Rating{}, fmt.Errorf("parse response: %w", err)
	}

	if resp.Bias < -1.0 || resp.Bias > 1.0 || resp.Credibility < 0.0 || resp.Credibility > 1.0 {
		return Rating{}, fmt.Errorf("rating out of range: bias=%v credibility=%v",
			resp.Bias, resp.Credibility)
	}

	return Rating{Bias: resp.Bias, Credibility: resp.Credibility}, nil
}

// doWithRetry executes the API request, retrying up to 2 times on HTTP 429
// or 5xx with backoff (1s, 2s).
func (l *HTTPLookup) doWithRetry(ctx context.Context, body []byte) ([]byte, error) {
	const maxRetries = 2
	backoffs := []time.Duration{time.Second, 2 * time.Second}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoffs[attempt-1]):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+l.apiKey)

		resp, err := l.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
			}
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("read response: %w", readErr)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return respBody, nil
		}

		// Retry on 429 (rate limited) or 5xx (server error).
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("bias API error (status %d): %s", resp.StatusCode, respBody)
			continue
		}

		// Non-retryable error (e.g. 400, 401, 403).
		return nil, fmt.Errorf("bias API error (status %d): %s", resp.StatusCode, respBody)
	}

	return nil, fmt.Errorf("bias API request failed after %d retries: %w", maxRetries, lastErr)
}

// lookupRequest is the request body for the rating API.
type lookupRequest struct {
	Source string `json:"source"`
}

// lookupResponse is the rating API's response body.
type lookupResponse struct {
	Bias        float64 `json:"bias"`
	Credibility float64 `json:"credibility"`
}
