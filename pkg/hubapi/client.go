package hubapi

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

	"github.com/google/uuid"
	"github.com/jon4hz/modhub/internal/config"
	"github.com/jon4hz/modhub/version"
)

const defaultTokenHeader = "Authorization"

// Client talks to the marketplace auth and mods endpoints.
type Client struct {
	authURL     string
	modsURL     string
	tokenHeader string
	httpClient  *http.Client
}

// New creates a new marketplace API client.
func New(cfg *config.APIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	header := cfg.TokenHeader
	if header == "" {
		header = defaultTokenHeader
	}
	return &Client{
		authURL:     cfg.AuthURL,
		modsURL:     cfg.ModsURL,
		tokenHeader: header,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// doRequest performs an HTTP request against one of the endpoints and decodes the JSON answer into out.
// A non-2xx answer carrying {"error": ...} becomes a *ValidationError, anything else unexpected wraps ErrNetwork.
func (c *Client) doRequest(ctx context.Context, method, endpoint, token string, query url.Values, body, out any) error {
	reqURL := endpoint
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(reqURL, "?") {
			sep = "&"
		}
		reqURL += sep + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "modhub/"+version.Version)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(c.tokenHeader, "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: error performing request: %w", ErrNetwork, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: error reading response: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return &ValidationError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return fmt.Errorf("%w: API request failed with status %d: %s", ErrNetwork, resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("%w: error decoding response: %w", ErrNetwork, err)
	}
	return nil
}

// IsNetwork reports whether err is a transport level failure.
func IsNetwork(err error) bool { return errors.Is(err, ErrNetwork) }
