package web

import "net/http"

// RegisterRoutes registers the HTML pages on the provided mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /login", h.Login)
	mux.HandleFunc("POST /login", h.SubmitLogin)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /{$}", h.Home)
}
