package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIError is an error response from the server.
type APIError struct {
	HTTPStatus int
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned %d", e.HTTPStatus)
}

// Client is a minimal HTTP client for the boardhub API.
type Client struct {
	BaseURL string
	Token   string // session token, sent as "Bearer"
	APIKey  string // API key, sent as "Key"

	http *http.Client
}

// NewClient creates a Client against the given host.
func NewClient(baseURL, apiKey, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// do performs a request and decodes the JSON response into out (if non-nil).
// A session token takes precedence over an API key when both are configured.
func (c *Client) do(method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch {
	case c.Token != "":
		req.Header.Set("Authorization", "Bearer "+c.Token)
	case c.APIKey != "":
		req.Header.Set("Authorization", "Key "+c.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		apiErr := &APIError{HTTPStatus: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
