package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Request_Success(t *testing.T) {
	// Mock server setup
	mockResponse := map[string]string{"message": "success"}
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/test-endpoint" {
			t.Errorf("Expected endpoint '/test-endpoint', got '%s'", r.URL.Path)
		}
		if r.URL.Query().Get("line") != "Line-1" {
			t.Errorf("Expected line query 'Line-1', got '%s'", r.URL.Query().Get("line"))
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Errorf("Expected a request id header")
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(mockResponse)
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL, 0)
	var response map[string]string

	err := client.Request(context.Background(), "GET", "/test-endpoint", url.Values{"line": {"Line-1"}}, nil, &response)

	require.NoError(t, err)
	assert.Equal(t, "success", response["message"])
}

func TestHTTPClient_Request_StatusErrorCarriesServerMessage(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "bad request"}`))
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL, 0)
	var response map[string]string

	err := client.Request(context.Background(), "POST", "/test-endpoint", nil, map[string]string{"key": "value"}, &response)

	require.Error(t, err)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "bad request", apiErr.Message)
	assert.Equal(t, "bad request", UserMessage(err, "fallback"))
}

func TestHTTPClient_Request_NonJSONErrorBodyFallsBack(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>gateway</html>`))
	}))
	defer mockServer.Close()

	err := NewHTTPClient(mockServer.URL, 0).Request(context.Background(), "GET", "/x", nil, nil, nil)

	require.Error(t, err)
	assert.Equal(t, "unexpected status code: 502 Bad Gateway", err.Error())
	assert.Equal(t, "Failed to load", UserMessage(err, "Failed to load"))
}

func TestHTTPClient_Request_NotFound(t *testing.T) {
	mockServer := httptest.NewServer(http.NotFoundHandler())
	defer mockServer.Close()

	err := NewHTTPClient(mockServer.URL, 0).Request(context.Background(), "DELETE", "/x/1", nil, nil, nil)

	assert.True(t, IsNotFound(err))
	assert.False(t, IsAbort(err))
}

func TestHTTPClient_Request_InvalidJSON(t *testing.T) {
	body := strings.Repeat("x", 500)
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer mockServer.Close()

	var response map[string]any
	err := NewHTTPClient(mockServer.URL, 0).Request(context.Background(), "POST", "/x", nil, map[string]int{"a": 1}, &response)

	require.ErrorIs(t, err, ErrInvalidResponse)
	assert.Contains(t, err.Error(), "Invalid response from server")
	assert.Less(t, len(err.Error()), 400, "body excerpt is truncated")
}

func TestHTTPClient_Request_Abort(t *testing.T) {
	release := make(chan struct{})
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer mockServer.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	err := NewHTTPClient(mockServer.URL, 0).Request(ctx, "GET", "/slow", nil, nil, nil)

	assert.True(t, IsAbort(err), "got %v", err)
}
