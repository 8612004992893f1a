package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"nested error object", `{"error":{"message":"nested"}}`, "nested"},
		{"message field", `{"message":"Invalid email or password"}`, "Invalid email or password"},
		{"errorMessage field", `{"errorMessage":"Job not found","errorCode":404}`, "Job not found"},
		{"error string", `{"error":"bad thing"}`, "bad thing"},
		{"message wins over error string", `{"error":"Bad Request","message":"Title is required"}`, "Title is required"},
		{"plain text", "Too many requests. Please slow down.", "Too many requests. Please slow down."},
		{"html page", "<html><body>502</body></html>", ""},
		{"empty", "   ", ""},
		{"broken json", `{"message":`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractMessage([]byte(tt.body)))
		})
	}
}

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusBadRequest, KindValidation},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindForbidden},
		{http.StatusNotFound, KindNotFound},
		{http.StatusConflict, KindConflict},
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusInternalServerError, KindServer},
		{http.StatusBadGateway, KindServer},
		{http.StatusTeapot, KindValidation},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, kindForStatus(tt.status))
		})
	}
}

func TestUserMessage(t *testing.T) {
	const fallback = "Something went wrong"

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"foreign error", errors.New("boom"), fallback},
		{"network", &Error{Kind: KindNetwork, Err: errors.New("dial tcp")}, MsgNetwork},
		{"validation with message", &Error{Kind: KindValidation, Status: 400, Message: "Title is required"}, "Title is required"},
		{"validation without message", &Error{Kind: KindValidation, Status: 400}, fallback},
		{"rate limited", &Error{Kind: KindRateLimited, Status: 429}, MsgRateLimited},
		{"unauthorized", &Error{Kind: KindUnauthorized, Status: 401}, MsgExpired},
		{"server hides detail", &Error{Kind: KindServer, Status: 500, Message: "NullPointerException"}, fallback},
		{"wrapped", fmt.Errorf("load: %w", &Error{Kind: KindConflict, Status: 409, Message: "Already applied"}), "Already applied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, fallback))
		})
	}
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", &Error{Kind: KindNotFound, Status: 404})
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, 404, StatusOf(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, 0, StatusOf(nil))
}
