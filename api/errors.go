package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrInvalidResponse marks a 2xx response whose body was not the JSON the
// caller expected.
var ErrInvalidResponse = errors.New("Invalid response from server")

const excerptLimit = 200

// Error is a non-2xx response from the backend.
type Error struct {
	StatusCode int
	Status     string
	Message    string
	RequestID  string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unexpected status code: " + e.Status
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func newStatusError(res *http.Response, body []byte, requestID string) *Error {
	e := &Error{StatusCode: res.StatusCode, Status: res.Status, RequestID: requestID}
	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil {
		e.Message = strings.TrimSpace(parsed.Message)
		if e.Message == "" {
			e.Message = strings.TrimSpace(parsed.Error)
		}
	}
	return e
}

func invalidResponse(body []byte, cause error) error {
	return fmt.Errorf("%w: %v (body: %q)", ErrInvalidResponse, cause, Excerpt(body))
}

// Excerpt truncates a raw body for diagnostics.
func Excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > excerptLimit {
		return s[:excerptLimit] + "..."
	}
	return s
}

// IsAbort reports whether err is a cancellation. Aborted requests must never
// update state or surface to the user.
func IsAbort(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsNotFound reports a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// UserMessage is the text shown to the user for err: the server message when
// there is one, else fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrInvalidResponse) {
		return err.Error()
	}
	return fallback
}
