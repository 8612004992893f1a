package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jobportal/jobportal-tui/internal/api"
)

// Reason distinguishes why an auth action failed
type Reason int

const (
	ReasonUnknown Reason = iota
	ReasonInvalidCredentials
	ReasonValidation
	ReasonEmailNotVerified
	ReasonRateLimited
	ReasonUnavailable
	ReasonConflict
)

func (r Reason) String() string {
	switch r {
	case ReasonInvalidCredentials:
		return "invalid_credentials"
	case ReasonValidation:
		return "validation"
	case ReasonEmailNotVerified:
		return "email_not_verified"
	case ReasonRateLimited:
		return "rate_limited"
	case ReasonUnavailable:
		return "unavailable"
	case ReasonConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Messages shown when the backend gave nothing better
const (
	MsgInvalidCredentials = "Invalid email or password."
	MsgEmailNotVerified   = "Please verify your email before logging in."
	MsgRateLimited        = "Too many attempts. Please wait a moment and try again."
	MsgUnknown            = "Something went wrong. Please try again."
)

// Failure is the typed error every Gateway action returns. Message is safe
// to show to the user as is.
type Failure struct {
	Reason  Reason
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return "auth: " + f.Reason.String() + ": " + f.Err.Error()
	}
	return "auth: " + f.Reason.String() + ": " + f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// ReasonOf returns the failure reason carried by err, or ReasonUnknown
func ReasonOf(err error) Reason {
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	return ReasonUnknown
}

func invalid(msg string) *Failure {
	return &Failure{Reason: ReasonValidation, Message: msg}
}

// classify maps a transport error onto a Failure. The backend reports an
// unverified account as 403 (login) or 400 (resend), so the message decides.
func classify(err error) *Failure {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Failure{Reason: ReasonUnavailable, Message: api.MsgNetwork, Err: err}
	}

	msg := api.UserMessage(err, "")
	mentionsVerify := strings.Contains(strings.ToLower(msg), "verify")

	switch api.KindOf(err) {
	case api.KindUnauthorized:
		return &Failure{Reason: ReasonInvalidCredentials, Message: orDefault(msg, MsgInvalidCredentials), Err: err}
	case api.KindForbidden:
		if mentionsVerify {
			return &Failure{Reason: ReasonEmailNotVerified, Message: orDefault(msg, MsgEmailNotVerified), Err: err}
		}
		// deactivated accounts
		return &Failure{Reason: ReasonInvalidCredentials, Message: orDefault(msg, MsgInvalidCredentials), Err: err}
	case api.KindValidation, api.KindNotFound:
		if mentionsVerify && strings.Contains(strings.ToLower(msg), "before") {
			return &Failure{Reason: ReasonEmailNotVerified, Message: msg, Err: err}
		}
		return &Failure{Reason: ReasonValidation, Message: orDefault(msg, MsgUnknown), Err: err}
	case api.KindConflict:
		return &Failure{Reason: ReasonConflict, Message: orDefault(msg, MsgUnknown), Err: err}
	case api.KindRateLimited:
		return &Failure{Reason: ReasonRateLimited, Message: MsgRateLimited, Err: err}
	case api.KindNetwork, api.KindServer:
		return &Failure{Reason: ReasonUnavailable, Message: api.MsgNetwork, Err: err}
	default:
		return &Failure{Reason: ReasonUnknown, Message: MsgUnknown, Err: err}
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
