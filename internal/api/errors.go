package api

import (
	"encoding/json"
	"errors"
	"strings"
)

// FallbackMessage is surfaced when the server gives no usable message
// (transport failure, empty or unparseable error body).
const FallbackMessage = "Something went wrong. Please try again."

// APIError is the normalized form of every failed request. Status 0
// means the request never produced a response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// normalizeError maps an error response body onto *APIError, preferring
// the server's {"message": ...} envelope.
func normalizeError(status int, body []byte) error {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return &APIError{Status: status, Message: envelope.Message}
	}
	return &APIError{Status: status, Message: FallbackMessage}
}

// Message extracts the human-readable message from any error returned
// by the client.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return FallbackMessage
}

// isAlreadyVerified reports whether err is the server's "email already
// verified" rejection, which the product treats as a soft success.
func isAlreadyVerified(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == 400 && strings.Contains(strings.ToLower(apiErr.Message), "already verified")
}
