package backend

import (
	"context"
	"net/http"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/port/driven"
)

const generatedFilenamePrefix = "download"

// Download sends req as a binary request and returns the file it produced.
//
// A successful response may still be a JSON envelope when the server
// short-circuits to an error. Download inspects it and returns a
// *model.BusinessError without notifying observers; the caller owns that
// message.
func (c *Client) Download(ctx context.Context, req driven.BackendRequest) (*model.Download, error) {
	req.Binary = true

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	switch p := resp.Payload.(type) {
	case model.BinaryPayload:
		return &model.Download{
			Filename:    c.filename(resp.Header, req.FallbackFilename),
			ContentType: p.ContentType,
			Data:        p.Data,
		}, nil

	case model.JSONPayload:
		if p.Envelope.HasCode() && !p.Envelope.OK() {
			message := p.Envelope.UserMessage(withDefault(req.FallbackMessage, model.DefaultErrorMessage))
			c.logger.Warn("download rejected by backend", "path", req.Path, "code", p.Envelope.Code, "message", message)
			return nil, &model.BusinessError{
				StatusCode: resp.StatusCode,
				Code:       model.ErrorCode(p.Envelope.Code),
				Message:    message,
			}
		}
	}

	// A JSON document without an error code is still a file.
	return &model.Download{
		Filename:    c.filename(resp.Header, req.FallbackFilename),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        resp.Body,
	}, nil
}

func (c *Client) filename(header http.Header, fallback string) string {
	if name, ok := ParseFilename(header.Get("Content-Disposition")); ok {
		return name
	}
	if fallback != "" {
		return fallback
	}
	return GeneratedFilename(generatedFilenamePrefix, c.clock.Now())
}
