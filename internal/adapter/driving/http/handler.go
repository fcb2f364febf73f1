// Package httphandler is the JSON API driving adapter the browser UI talks
// to. It forwards every call through the application services and streams
// pipeline side effects (notifications, login redirects) as server-sent
// events.
package httphandler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericfisherdev/ledgerdesk/internal/application"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	auth      *application.AuthService
	contracts *application.ContractService
	expenses  *application.ExpenseService
	users     *application.UserService
	broker    *Broker
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	auth *application.AuthService,
	contracts *application.ContractService,
	expenses *application.ExpenseService,
	users *application.UserService,
	broker *Broker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:      auth,
		contracts: contracts,
		expenses:  expenses,
		users:     users,
		broker:    broker,
		logger:    logger,
	}
}

// NewServeMux creates an http.Handler with all API routes registered and
// wrapped with logging and recovery middleware. Extra routes (the login view)
// can be added through register before wrapping.
func NewServeMux(h *Handler, gatherer prometheus.Gatherer, logger *slog.Logger, register ...func(*http.ServeMux)) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/session", h.Session)
	mux.Handle("POST /api/v1/login", crossOriginMiddleware(http.HandlerFunc(h.Login)))
	mux.Handle("POST /api/v1/logout", crossOriginMiddleware(http.HandlerFunc(h.Logout)))
	mux.HandleFunc("GET /api/v1/events", h.Events)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.Handle("GET /api/v1/contracts", h.protect(h.ListContracts))
	mux.Handle("POST /api/v1/contracts", h.protect(h.CreateContract))
	mux.Handle("PUT /api/v1/contracts/{id}", h.protect(h.UpdateContract))
	mux.Handle("POST /api/v1/contracts/delete", h.protect(h.DeleteContracts))
	mux.Handle("DELETE /api/v1/contracts", h.protect(h.DeleteAllContracts))
	mux.Handle("POST /api/v1/contracts/excel", h.protect(h.UploadContractExcel))
	mux.Handle("GET /api/v1/contracts/excel", h.protect(h.DownloadContractExcel))

	mux.Handle("GET /api/v1/expenses", h.protect(h.ListExpenses))
	mux.Handle("POST /api/v1/expenses", h.protect(h.CreateExpense))
	mux.Handle("PUT /api/v1/expenses/{id}", h.protect(h.UpdateExpense))
	mux.Handle("DELETE /api/v1/expenses/{id}", h.protect(h.DeleteExpense))
	mux.Handle("POST /api/v1/expenses/delete", h.protect(h.DeleteExpenses))

	mux.Handle("GET /api/v1/users", h.protect(h.ListUsers))
	mux.Handle("POST /api/v1/users", h.protect(h.CreateUser))
	mux.Handle("PUT /api/v1/users/{id}", h.protect(h.UpdateUser))
	mux.Handle("DELETE /api/v1/users/{id}", h.protect(h.DeleteUser))
	mux.Handle("POST /api/v1/users/{id}/password", h.protect(h.ResetPassword))

	for _, fn := range register {
		fn(mux)
	}

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

func (h *Handler) protect(fn http.HandlerFunc) http.Handler {
	return crossOriginMiddleware(authMiddleware(h.auth.Authenticated, fn))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Time:          time.Now().UTC().Format(time.RFC3339),
		Authenticated: h.auth.Authenticated(),
		Streams:       h.broker.Subscribers(),
	})
}

// Session reports whether a bearer token is held.
func (h *Handler) Session(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SessionResponse{Authenticated: h.auth.Authenticated()})
}

// Login exchanges credentials for a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.auth.Login(r.Context(), req.LoginID, req.Password); err != nil {
		h.writeServiceError(w, r, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{Authenticated: true})
}

// Logout ends the session. The navigate event carries the browser to login.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// yearParam parses the required year query parameter, writing a 400 on
// failure.
func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year <= 0 {
		writeError(w, http.StatusBadRequest, "invalid year")
		return 0, false
	}
	return year, true
}

// idParam parses the {id} path value, writing a 400 on failure.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
