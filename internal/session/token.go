package session

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// parseStoredToken extracts the bearer credential from what was persisted.
// Besides a bare token it accepts a "Bearer " prefix and the JSON object
// {"token": "..."} written by earlier client versions.
func parseStoredToken(raw string) (string, error) {
	content := strings.TrimSpace(raw)

	// Skip any leading non-printable bytes
	for len(content) > 0 && content[0] < 32 {
		content = content[1:]
	}
	if content == "" {
		return "", errors.New("empty credential")
	}

	if content[0] == '{' {
		var wrapped struct {
			Token       string `json:"token"`
			AccessToken string `json:"accessToken"`
		}
		if err := json.Unmarshal([]byte(content), &wrapped); err != nil {
			return "", errors.New("malformed credential object")
		}
		content = wrapped.Token
		if content == "" {
			content = wrapped.AccessToken
		}
		if content == "" {
			return "", errors.New("credential object has no token")
		}
	}

	if len(content) > 7 && strings.EqualFold(content[:7], "bearer ") {
		content = strings.TrimSpace(content[7:])
	}
	if strings.ContainsAny(content, " \t\r\n") {
		return "", errors.New("credential contains whitespace")
	}
	return content, nil
}

// tokenExpiry reads the exp claim of a JWT without verifying its signature.
// The backend stays the authority on validity; this only avoids a round trip
// for credentials that are already known to be dead. Opaque tokens report false.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
