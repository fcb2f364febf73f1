package model

import "time"

// SlotAccessToken is the credential slot holding the backend bearer token.
const SlotAccessToken = "accessToken"

// Credential is a single named slot of durable credential storage. Slot
// identifies what the value is ("accessToken"); Value is the plaintext.
type Credential struct {
	ID        int64
	Slot      string
	Value     string
	UpdatedAt time.Time
}
