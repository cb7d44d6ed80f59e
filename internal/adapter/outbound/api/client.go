// Package api is the HTTP client for the recommendation backend.
//
// Every backend response is expected to carry a
// {success: bool, data, message?} envelope; a non-JSON or
// envelope-less body is a protocol error, not silently accepted.
// Failures are classified into the kinds defined in package apierr so
// that callers can decide between surfacing, demo fallback, and mock
// fallback.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/campusrec/campusrec/internal/apierr"
	"github.com/campusrec/campusrec/internal/metrics"
	"github.com/campusrec/campusrec/internal/telemetry"
)

// DefaultTimeout bounds every backend request. The source client had
// no timeout at all; that gap is closed here.
const DefaultTimeout = 10 * time.Second

// Client talks to the recommendation backend.
type Client struct {
	baseURL    string
	timeout    time.Duration
	retry      RetryPolicy
	httpClient *http.Client
	logger     *slog.Logger
}

// envelope is the protocol wrapper carried by every backend response.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// NewClient creates a new backend client.
// It reads the base URL from the CAMPUSREC_API_URL environment
// variable by default. Options can be used to override the defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: os.Getenv("CAMPUSREC_API_URL"),
		timeout: DefaultTimeout,
		retry:   DefaultRetryPolicy(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// get performs a GET under the retry policy, decoding the envelope
// data into result.
func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.retry.do(ctx, func() error {
		return c.doRequest(ctx, http.MethodGet, path, nil, result)
	})
}

// doRequest performs one HTTP request against the backend, enforcing
// the response envelope and classifying failures.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	url := strings.TrimRight(c.baseURL, "/") + path

	ctx, span := telemetry.Tracer().Start(ctx, "backend."+method)
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	)
	defer span.End()

	start := time.Now()
	err := c.doRequestInner(ctx, method, url, body, result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("backend request failed",
			"method", method, "path", path, "duration", time.Since(start), "error", err)
	} else {
		c.logger.Debug("backend request",
			"method", method, "path", path, "duration", time.Since(start))
	}
	metrics.BackendRequests.WithLabelValues(method, outcomeLabel(err)).Inc()
	return err
}

func (c *Client) doRequestInner(ctx context.Context, method, url string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// DNS failures, refused connections, timeouts. All of these
		// put the client into degraded mode.
		return &apierr.UnreachableError{Cause: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return &apierr.UnreachableError{Cause: fmt.Errorf("read response body: %w", err)}
	}

	// A 5xx means the backend is up but broken; treated as unreachable
	// for fallback purposes.
	if httpResp.StatusCode >= 500 {
		return &apierr.UnreachableError{
			Cause: fmt.Errorf("server returned %d: %s", httpResp.StatusCode, strings.TrimSpace(string(respBody))),
		}
	}

	env, envErr := decodeEnvelope(respBody)

	if httpResp.StatusCode == http.StatusUnauthorized {
		return &apierr.InvalidCredentialsError{Message: messageFrom(env, httpResp.StatusCode)}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return &apierr.StatusError{
			StatusCode: httpResp.StatusCode,
			Message:    messageFrom(env, httpResp.StatusCode),
		}
	}

	if envErr != nil {
		return &apierr.MalformedResponseError{Cause: envErr}
	}

	if !env.Success {
		return &apierr.StatusError{
			StatusCode: httpResp.StatusCode,
			Message:    messageFrom(env, httpResp.StatusCode),
		}
	}

	if result != nil {
		if len(env.Data) == 0 {
			return &apierr.MalformedResponseError{Cause: fmt.Errorf("envelope has no data field")}
		}
		if err := json.Unmarshal(env.Data, result); err != nil {
			return &apierr.MalformedResponseError{Cause: fmt.Errorf("decode data: %w", err)}
		}
	}

	return nil
}

// decodeEnvelope parses the response body as the protocol envelope.
// A body that is valid JSON but lacks the envelope shape entirely is
// rejected.
func decodeEnvelope(body []byte) (*envelope, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("not a JSON object: %w", err)
	}
	if _, ok := probe["success"]; !ok {
		return nil, fmt.Errorf("missing success field")
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// messageFrom picks the human-readable failure message in priority
// order: explicit server message, then HTTP status text.
func messageFrom(env *envelope, statusCode int) string {
	if env != nil && env.Message != "" {
		return env.Message
	}
	return http.StatusText(statusCode)
}

// outcomeLabel maps an error to the metrics outcome label.
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apierr.ErrMalformedResponse):
		return "malformed"
	case apierr.Degraded(err):
		return "unreachable"
	default:
		return "rejected"
	}
}
