package model

// Notification is a user-facing business-error message raised by the
// request pipeline.
type Notification struct {
	Message string `json:"message"`
}
