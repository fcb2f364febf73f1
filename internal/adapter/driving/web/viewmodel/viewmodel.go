// Package viewmodel defines presentation-ready structs for the HTML templates.
// View models decouple template rendering from domain model types.
package viewmodel

// LoginViewModel holds the data rendered by the login page.
type LoginViewModel struct {
	Title     string
	CSRFToken string
	// Error is shown once, then discarded. Already stripped of markup.
	Error   string
	LoginID string
}

// HomeViewModel holds the data rendered by the landing page shown after
// login. The page subscribes to the event stream at EventsPath and follows
// navigate events to the login view.
type HomeViewModel struct {
	Title      string
	CSRFToken  string
	EventsPath string
	Year       int
}
