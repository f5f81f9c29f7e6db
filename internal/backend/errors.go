package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Codes used when the backend did not supply one
const (
	CodeNetworkError = "NETWORK_ERROR"
	CodeRequestError = "REQUEST_ERROR"
)

// APIError is the normalized failure of a backend call. Status is 0 when no
// response was received.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %s (status %d): %s", e.Code, e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the backend
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// StatusOf returns the HTTP status carried by an APIError, or -1
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

func newStatusError(status int, code, message string) *APIError {
	if code == "" {
		code = fmt.Sprintf("HTTP_%d", status)
	}
	if message == "" {
		message = defaultErrorMessage(status)
	}
	return &APIError{Status: status, Code: code, Message: message}
}

func defaultErrorMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid request parameters"
	case http.StatusUnauthorized:
		return "unauthorized, please log in again"
	case http.StatusForbidden:
		return "permission denied"
	case http.StatusNotFound:
		return "requested resource does not exist"
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusBadGateway:
		return "bad gateway"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	case http.StatusGatewayTimeout:
		return "gateway timeout"
	}
	return "request failed"
}

// LinkErrorKind classifies why a share link could not be used
type LinkErrorKind string

const (
	LinkOK      LinkErrorKind = ""
	LinkExpired LinkErrorKind = "expired"
	LinkUsed    LinkErrorKind = "used"
	LinkInvalid LinkErrorKind = "invalid"
	LinkUnknown LinkErrorKind = "unknown"
)

var linkCodes = map[string]LinkErrorKind{
	"LINK_EXPIRED":  LinkExpired,
	"TOKEN_EXPIRED": LinkExpired,
	"LINK_USED":     LinkUsed,
	"TOKEN_USED":    LinkUsed,
	"LINK_INVALID":  LinkInvalid,
	"TOKEN_INVALID": LinkInvalid,
	"INVALID_TOKEN": LinkInvalid,
}

// ClassifyLinkError maps a failed public call to a link error kind. Machine
// readable codes win; older backends only say it in the message, so the
// substrings expired, used and invalid are checked next, in that order.
func ClassifyLinkError(err error) LinkErrorKind {
	if err == nil {
		return LinkOK
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return LinkUnknown
	}
	if kind, ok := linkCodes[strings.ToUpper(apiErr.Code)]; ok {
		return kind
	}

	msg := strings.ToLower(apiErr.Message)
	switch {
	case strings.Contains(msg, "expired"):
		return LinkExpired
	case strings.Contains(msg, "used"):
		return LinkUsed
	case strings.Contains(msg, "invalid"):
		return LinkInvalid
	}
	return LinkUnknown
}
