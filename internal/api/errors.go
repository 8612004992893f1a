package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed API call by origin
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindUnauthorized
	KindForbidden
	KindValidation
	KindNotFound
	KindConflict
	KindRateLimited
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method that fails
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 when no response arrived
	Message string // backend supplied message, may be empty
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("api ")
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of an API error, or KindUnknown for anything else
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status behind err, or 0
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// User facing messages for failures that carry no usable backend message
const (
	MsgNetwork     = "Unable to reach the server. Please try again later."
	MsgRateLimited = "Too many requests. Please slow down."
	MsgExpired     = "Your session has expired. Please log in again."
	MsgForbidden   = "You do not have permission to do that."
)

// UserMessage turns err into text fit for the status line. Backend messages
// are shown verbatim for client errors; server faults and unknown errors
// fall back to fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return fallback
	}

	switch apiErr.Kind {
	case KindNetwork:
		return MsgNetwork
	case KindRateLimited:
		return firstNonEmpty(apiErr.Message, MsgRateLimited)
	case KindUnauthorized:
		return firstNonEmpty(apiErr.Message, MsgExpired)
	case KindForbidden:
		return firstNonEmpty(apiErr.Message, MsgForbidden)
	case KindValidation, KindNotFound, KindConflict:
		return firstNonEmpty(apiErr.Message, fallback)
	default:
		return fallback
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	case status >= 400:
		return KindValidation
	default:
		return KindUnknown
	}
}

func newStatusError(status int, body []byte) *Error {
	return &Error{
		Kind:    kindForStatus(status),
		Status:  status,
		Message: extractMessage(body),
	}
}

const maxPlainMessage = 300

// extractMessage pulls a human readable message out of an error body.
// Accepted shapes, in order: {"error":{"message":..}}, {"message":..},
// {"errorMessage":..}, {"error":".."}, then a short plain text body.
func extractMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}

	if text[0] == '{' {
		var payload struct {
			Error        json.RawMessage `json:"error"`
			Message      string          `json:"message"`
			ErrorMessage string          `json:"errorMessage"`
		}
		if err := json.Unmarshal([]byte(text), &payload); err != nil {
			return ""
		}
		var nested struct {
			Message string `json:"message"`
		}
		if len(payload.Error) > 0 && json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
		if payload.Message != "" {
			return payload.Message
		}
		if payload.ErrorMessage != "" {
			return payload.ErrorMessage
		}
		var plain string
		if len(payload.Error) > 0 && json.Unmarshal(payload.Error, &plain) == nil {
			return plain
		}
		return ""
	}

	// HTML error pages are not messages
	if text[0] == '<' || len(text) > maxPlainMessage {
		return ""
	}
	return text
}
