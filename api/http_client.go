// api/http_client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// HTTPClient struct to hold base URL and HTTP client configuration
type HTTPClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewHTTPClient creates a new instance of HTTPClient. A zero timeout means
// requests are bounded only by their context.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Request makes an HTTP request to the API and decodes the response into
// response when it is non-nil.
func (c *HTTPClient) Request(ctx context.Context, method, endpoint string, query url.Values, body interface{}, response interface{}) error {
	var requestBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		requestBody = bytes.NewReader(jsonBody)
	}

	target := c.BaseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, requestBody)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return newStatusError(res, resBody, requestID)
	}

	if response == nil || len(bytes.TrimSpace(resBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resBody, response); err != nil {
		return invalidResponse(resBody, err)
	}
	return nil
}
