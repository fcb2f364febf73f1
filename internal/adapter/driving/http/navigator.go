package httphandler

import (
	"context"
	"html"
	"log/slog"
	"net/url"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/port/driven"
)

// LoginPath is the login view's location.
const LoginPath = "/login"

// Compile-time interface satisfaction check.
var _ driven.Navigator = (*BrowserNavigator)(nil)

var messagePolicy = bluemonday.StrictPolicy()

// plainText strips all markup from a server-provided message. The result is
// unescaped text; renderers escape it for their own context.
func plainText(s string) string {
	return html.UnescapeString(messagePolicy.Sanitize(s))
}

// LoginLocation returns the login URL, carrying message as the error query
// parameter when non-empty.
func LoginLocation(message string) string {
	if message == "" {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{"error": {message}}.Encode()
}

type navigatePayload struct {
	Location string `json:"location"`
}

type notificationPayload struct {
	Message string `json:"message"`
}

// BrowserNavigator turns pipeline side effects into browser events: login
// redirects become navigate events and business-error notifications become
// api-error events.
type BrowserNavigator struct {
	broker *Broker
	logger *slog.Logger
}

// NewBrowserNavigator creates a navigator publishing on broker.
func NewBrowserNavigator(broker *Broker, logger *slog.Logger) *BrowserNavigator {
	return &BrowserNavigator{broker: broker, logger: logger}
}

// RedirectToLogin publishes a navigate event to the login view.
func (n *BrowserNavigator) RedirectToLogin(_ context.Context, message string) {
	location := LoginLocation(plainText(message))
	n.logger.Info("redirecting browser to login", "location", location)
	n.broker.Publish(EventNavigate, navigatePayload{Location: location})
}

// Notify publishes a business-error notification. It matches the pipeline's
// notification handler signature.
func (n *BrowserNavigator) Notify(notification model.Notification) {
	n.broker.Publish(EventAPIError, notificationPayload{Message: plainText(notification.Message)})
}
