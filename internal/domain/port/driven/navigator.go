package driven

import "context"

// Navigator moves the operator to the login view after an unrecoverable
// authentication failure. message is shown on the login view once; an empty
// message redirects without one.
type Navigator interface {
	RedirectToLogin(ctx context.Context, message string)
}
