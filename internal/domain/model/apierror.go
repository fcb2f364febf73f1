package model

import (
	"context"
	"fmt"
)

// ReloginMessage is shown on the login view when an unrecoverable auth failure
// carries no server message of its own.
const ReloginMessage = "authentication failed, please log in again"

// RetryableAuthError reports an expired access token that can be renewed
// without a fresh login. The request pipeline recovers it internally; it only
// surfaces wrapped inside a FatalAuthError when recovery fails.
type RetryableAuthError struct {
	Code    ErrorCode
	Message string
}

func (e *RetryableAuthError) Error() string {
	return fmt.Sprintf("access token expired (%s): %s", e.Code, e.Message)
}

// FatalAuthError reports that no valid session exists. The credential has been
// cleared and the operator redirected to login by the time callers see it.
// Message is the text forwarded to the login view; it is empty when the
// redirect carried none.
type FatalAuthError struct {
	StatusCode int
	Code       ErrorCode
	Message    string
	Err        error
}

func (e *FatalAuthError) Error() string {
	msg := fmt.Sprintf("session is no longer valid (status %d, code %q)", e.StatusCode, e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FatalAuthError) Unwrap() error {
	return e.Err
}

// BusinessError is a well-formed backend rejection (code != SuccessCode).
// Error returns the human-readable message unchanged so it can be shown as is.
type BusinessError struct {
	StatusCode int
	Code       ErrorCode
	Message    string
}

func (e *BusinessError) Error() string {
	return e.Message
}

// TransportError reports a failure below the envelope: the network call
// failed, or the backend answered with something that is not an envelope.
type TransportError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("transport failure (status %d): %v", e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("transport failure: %v", e.Err)
	default:
		return fmt.Sprintf("unexpected status code: %d, body: %s", e.StatusCode, string(e.Body))
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// CancelledError reports that the caller abandoned the request. It is a
// silent termination, not a failure.
type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string {
	return "request cancelled: " + e.Err.Error()
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}

// NewCancelledError wraps ctx's error, defaulting to context.Canceled.
func NewCancelledError(ctx context.Context) *CancelledError {
	err := ctx.Err()
	if err == nil {
		err = context.Canceled
	}
	return &CancelledError{Err: err}
}

