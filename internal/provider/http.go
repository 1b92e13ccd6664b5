package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/nubank/chat-assistant/internal"
)

// HTTPClient sends {"prompt": ...} to the endpoint registered for a model and
// reads the "text" field of the JSON reply.
type HTTPClient struct {
	backends Resolver
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTPClient builds a client. A zero timeout leaves the transport default
// in place.
func NewHTTPClient(backends Resolver, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		backends: backends,
		client: &http.Client{
			Timeout: timeout,
			// A redirect is reported as an unavailable backend, never followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

func (c *HTTPClient) Name() string { return "http" }

func (c *HTTPClient) Generate(ctx context.Context, prompt, modelID string) (string, error) {
	endpoint, ok := c.backends.Lookup(modelID)
	if !ok {
		return "", internal.NewUnsupportedModelError(modelID)
	}

	payload, err := sjson.SetBytes([]byte(`{}`), "prompt", prompt)
	if err != nil {
		return "", internal.NewInternalError(fmt.Errorf("encode payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", internal.NewBackendUnavailableError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", "model", modelID, "endpoint", endpoint, "error", err)
		return "", internal.NewBackendUnavailableError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", internal.NewBackendUnavailableError(fmt.Errorf("read response: %w", err))
	}

	c.logger.Debug("backend responded",
		"model", modelID,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
		"bytes", len(body),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", internal.NewBackendUnavailableError(
			fmt.Errorf("%s returned %s", endpoint, resp.Status))
	}

	if !gjson.ValidBytes(body) {
		return "", internal.NewInternalError(errors.New("backend returned invalid JSON"))
	}
	res := gjson.ParseBytes(body)
	if !res.IsObject() {
		return "", internal.NewInternalError(errors.New("backend reply is not a JSON object"))
	}
	// A missing "text" field is an empty reply, not an error.
	return res.Get("text").String(), nil
}
