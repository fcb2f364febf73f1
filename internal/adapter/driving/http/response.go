package httphandler

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/ericfisherdev/ledgerdesk/internal/application"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body. Redirect is set when the
// browser should leave the current view for the login view.
type errorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status        string `json:"status"`
	Time          string `json:"time"`
	Authenticated bool   `json:"authenticated"`
	Streams       int    `json:"streams"`
}

// SessionResponse reports whether the operator is logged in.
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

// LoginRequest is the JSON body for the login endpoint.
type LoginRequest struct {
	LoginID  string `json:"loginId"`
	Password string `json:"password"`
}

// IDsRequest is the JSON body for batch deletes.
type IDsRequest struct {
	IDs []int64 `json:"ids"`
}

// PasswordRequest is the JSON body for a password reset.
type PasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

var validationErrors = []error{
	application.ErrInvalidYear,
	application.ErrInvalidContractType,
	application.ErrNoIDs,
	application.ErrEmptyPassword,
	application.ErrMissingCredentials,
}

// writeServiceError maps a service error onto an HTTP response. Pipeline side
// effects (notification, redirect) have already happened; the response only
// tells the calling page what to do next.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		cancelled *model.CancelledError
		business  *model.BusinessError
		fatal     *model.FatalAuthError
		transport *model.TransportError
	)

	switch {
	case errors.As(err, &cancelled):
		h.logger.Debug("request abandoned by client", "op", op, "path", r.URL.Path)

	case errors.As(err, &business):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: plainText(business.Message),
			Code:  string(business.Code),
		})

	case errors.As(err, &fatal):
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:    "session expired",
			Code:     string(fatal.Code),
			Redirect: LoginLocation(plainText(fatal.Message)),
		})

	case errors.As(err, &transport):
		h.logger.Error("backend unavailable", "op", op, "error", err)
		writeError(w, http.StatusBadGateway, "backend unavailable")

	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())

	default:
		h.logger.Error("request failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// decodeJSON reads the request body into v. A body not declared as JSON gets
// a 415, a malformed one a 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mediaType != "application/json" {
		writeError(w, http.StatusUnsupportedMediaType, "content type must be application/json")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
