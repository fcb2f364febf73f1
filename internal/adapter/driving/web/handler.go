// Package web implements the HTML driving adapter: the login view and the
// landing page that follows pipeline redirects.
package web

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jonboulle/clockwork"

	vm "github.com/ericfisherdev/ledgerdesk/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/ledgerdesk/internal/application"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
)

const (
	loginPath  = "/login"
	homePath   = "/"
	eventsPath = "/api/v1/events"
	appTitle   = "Ledgerdesk"
)

// Handler is the web driving adapter that serves HTML pages.
type Handler struct {
	auth      *application.AuthService
	templates *template.Template
	clock     clockwork.Clock
	logger    *slog.Logger
}

// NewHandler parses the embedded templates and creates a Handler.
func NewHandler(auth *application.AuthService, clock clockwork.Clock, logger *slog.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(TemplateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Handler{auth: auth, templates: tmpl, clock: clock, logger: logger}, nil
}

// Login renders the login form. A message passed as ?error= is moved into a
// one-shot flash cookie and the browser is sent back to the bare URL, so the
// message is shown exactly once and never lingers in history.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("error") {
		if msg := SanitizeMessage(r.URL.Query().Get("error")); msg != "" {
			setFlash(w, msg)
		}
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}

	h.render(w, "login.html", vm.LoginViewModel{
		Title:     appTitle + " - Login",
		CSRFToken: csrfToken(w, r),
		Error:     popFlash(w, r),
	})
}

// SubmitLogin handles the login form post.
func (h *Handler) SubmitLogin(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	loginID := r.FormValue("loginId")
	err := h.auth.Login(r.Context(), loginID, r.FormValue("password"))
	if err == nil {
		http.Redirect(w, r, homePath, http.StatusSeeOther)
		return
	}

	h.logger.Warn("login rejected", "login_id", loginID, "error", err)
	http.Redirect(w, r, loginPath+"?"+url.Values{"error": {loginErrorMessage(err)}}.Encode(), http.StatusSeeOther)
}

// Logout ends the session and returns to the login view.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	h.auth.Logout(r.Context())
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// Home renders the landing page, or sends a logged-out browser to login.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if !h.auth.Authenticated() {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}

	h.render(w, "home.html", vm.HomeViewModel{
		Title:      appTitle,
		CSRFToken:  csrfToken(w, r),
		EventsPath: eventsPath,
		Year:       h.clock.Now().Year(),
	})
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("failed to render page", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func loginErrorMessage(err error) string {
	var business *model.BusinessError
	switch {
	case errors.As(err, &business):
		return business.Message
	case errors.Is(err, application.ErrMissingCredentials):
		return "enter your login id and password"
	default:
		return "login is unavailable, try again later"
	}
}
