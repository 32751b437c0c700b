// Package client talks to the expense backend: POST-only JSON requests
// with a `{"data": ...}` success envelope and an `{"errors": ...}` error
// envelope. Every call resolves to exactly one of: decoded record,
// structured server error, or transport failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kamau/expensa/model"
)

// Caller issues POST requests against the backend base URL.
type Caller struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewCaller creates a Caller for the given base URL.
func NewCaller(baseURL string, timeout time.Duration, logger *zap.Logger) *Caller {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Caller{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// envelope is the backend response shape. A response carries either data
// or errors, never both.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors *serverError    `json:"errors"`
}

type serverError struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// Post sends payload as JSON to path and decodes the data envelope into
// out (which may be nil for calls whose data is ignored). Non-200 status
// or malformed JSON is a transport failure; an errors envelope is a server
// error.
func (c *Caller) Post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return model.NewTransportFailureError(fmt.Sprintf("encoding request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return model.NewTransportFailureError(fmt.Sprintf("building request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("backend request",
		zap.String("path", path),
		zap.Int("payload_bytes", len(body)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewTransportFailureError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("backend returned non-200 status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return model.NewTransportFailureError(
			fmt.Sprintf("server returned status code %d", resp.StatusCode),
		)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return model.NewTransportFailureError("invalid JSON response")
	}

	if env.Errors != nil {
		return model.NewServerError(env.Errors.ErrorCode, env.Errors.ErrorMessage)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return model.NewTransportFailureError("invalid JSON response")
		}
	}
	return nil
}
