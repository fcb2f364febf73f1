package driven

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
)

// BackendRequest describes one call to the financial-records backend.
type BackendRequest struct {
	Method string
	// Path is relative to the configured API base URL, e.g. "/expense/list".
	Path  string
	Query url.Values
	// Body is JSON-encoded unless it is an io.Reader, which is sent as is
	// with ContentType.
	Body        any
	ContentType string
	// Binary marks a file download; success bodies are returned raw.
	Binary bool
	// FallbackMessage replaces the generic message when a binary call fails
	// with an envelope that has no message of its own.
	FallbackMessage string
	// FallbackFilename is used when a download carries no usable
	// Content-Disposition header.
	FallbackFilename string
}

// BackendResponse is a response that passed envelope classification.
type BackendResponse struct {
	StatusCode int
	Header     http.Header
	Payload    model.Payload
	// Body is the raw response body Payload was decoded from.
	Body []byte
}

// Envelope returns the decoded envelope, or a zero Envelope for binary bodies.
func (r *BackendResponse) Envelope() model.Envelope {
	if p, ok := r.Payload.(model.JSONPayload); ok {
		return p.Envelope
	}
	return model.Envelope{}
}

// Backend is the driven port for the authenticated request pipeline.
// Errors are one of the model API error types.
type Backend interface {
	Do(ctx context.Context, req BackendRequest) (*BackendResponse, error)
	Download(ctx context.Context, req BackendRequest) (*model.Download, error)
}

// MultipartFile is an upload body part.
type MultipartFile struct {
	FieldName string
	FileName  string
	Content   io.Reader
}
