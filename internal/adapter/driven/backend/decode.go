package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
)

var errNotJSON = errors.New("response body is not valid JSON")

// decodePayload turns a raw body into the tagged Payload union. Binary
// requests keep non-JSON bodies raw; everything else must be an envelope.
// An empty body decodes to an empty envelope (no code). The returned error
// reports a body that should have been an envelope but was not; the payload
// is still usable for status-only classification.
func decodePayload(contentType string, body []byte, binary bool) (model.Payload, error) {
	if binary && !isJSONContentType(contentType) {
		return model.BinaryPayload{Data: body, ContentType: contentType}, nil
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return model.JSONPayload{}, nil
	}

	if !gjson.ValidBytes(body) {
		return model.JSONPayload{}, errNotJSON
	}

	var env model.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return model.JSONPayload{}, fmt.Errorf("decode envelope: %w", err)
	}
	return model.JSONPayload{Envelope: env}, nil
}

// isJSONContentType reports whether ct is application/json or a +json type.
func isJSONContentType(ct string) bool {
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(ct, ";", 2)[0]))
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
