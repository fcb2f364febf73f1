package model

import (
	"encoding/json"
	"fmt"
)

// SuccessCode is the envelope code the backend uses for business success.
const SuccessCode = "000000"

// DefaultErrorMessage is shown when the backend gives no user-facing message.
const DefaultErrorMessage = "request failed"

// Envelope is the wrapper every non-binary backend response uses to signal
// business-level outcome independently of the HTTP status.
type Envelope struct {
	Code         string          `json:"code"`
	Message      string          `json:"message"`
	FrontMessage string          `json:"frontMessage"`
	Data         json.RawMessage `json:"data"`
}

// OK reports whether the envelope carries the success sentinel.
func (e Envelope) OK() bool {
	return e.Code == SuccessCode
}

// HasCode reports whether the backend set a code at all.
func (e Envelope) HasCode() bool {
	return e.Code != ""
}

// UserMessage returns frontMessage, then message, then fallback.
func (e Envelope) UserMessage(fallback string) string {
	if e.FrontMessage != "" {
		return e.FrontMessage
	}
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// DecodeData unmarshals the data field into v. A missing or null data field
// leaves v untouched.
func (e Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode envelope data: %w", err)
	}
	return nil
}
