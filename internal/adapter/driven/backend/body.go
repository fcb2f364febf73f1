package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/port/driven"
)

const contentTypeJSON = "application/json"

// encodeBody renders a request body once so every attempt (first send and
// replay) can be rebuilt from the same bytes.
func encodeBody(req driven.BackendRequest) ([]byte, string, error) {
	switch body := req.Body.(type) {
	case nil:
		return nil, req.ContentType, nil
	case driven.MultipartFile:
		return encodeMultipart(body)
	case *driven.MultipartFile:
		return encodeMultipart(*body)
	case []byte:
		return body, withDefault(req.ContentType, contentTypeJSON), nil
	case io.Reader:
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, "", fmt.Errorf("read request body: %w", err)
		}
		return data, withDefault(req.ContentType, "application/octet-stream"), nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("marshal request body: %w", err)
		}
		return data, withDefault(req.ContentType, contentTypeJSON), nil
	}
}

func encodeMultipart(file driven.MultipartFile) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	field := withDefault(file.FieldName, "file")
	part, err := w.CreateFormFile(field, file.FileName)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if file.Content != nil {
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", fmt.Errorf("copy form file %q: %w", file.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
