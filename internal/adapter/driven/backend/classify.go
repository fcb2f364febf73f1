package backend

import (
	"net/http"
	"strings"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
)

// Class is the pipeline's verdict on a single backend exchange.
type Class int

const (
	ClassSuccess Class = iota
	ClassBusiness
	ClassRetryableAuth
	ClassFatalAuth
	ClassTransport
)

func (c Class) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassBusiness:
		return "business_error"
	case ClassRetryableAuth:
		return "retryable_auth"
	case ClassFatalAuth:
		return "fatal_auth"
	case ClassTransport:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Classify maps an exchange to exactly one Class. exempt marks requests whose
// successful bodies are not envelope-checked: auth endpoints, whose payload
// shape differs, and binary downloads, whose envelope (if any) belongs to the
// download caller. A 401 is never exempt.
func Classify(status int, code model.ErrorCode, exempt bool) Class {
	switch {
	case status == http.StatusUnauthorized:
		if code.IsRetryableAuth() {
			return ClassRetryableAuth
		}
		return ClassFatalAuth
	case status >= 200 && status < 300:
		if exempt || code == "" || code == model.SuccessCode {
			return ClassSuccess
		}
		return ClassBusiness
	default:
		if code != "" && code != model.SuccessCode {
			return ClassBusiness
		}
		return ClassTransport
	}
}

// isAuthEndpoint reports whether path belongs to the authentication API.
func isAuthEndpoint(path string) bool {
	return strings.Contains(path, "/auth/")
}
