package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by CredentialStore operations when
// LEDGERDESK_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set LEDGERDESK_SECRET_KEY")

// CredentialStore defines the driven port for durable credential slots.
// The adapter layer is responsible for encryption/decryption; this interface
// operates on plaintext values at the domain boundary.
type CredentialStore interface {
	// Set stores or replaces the value held in slot.
	Set(ctx context.Context, slot, plaintext string) error

	// Get retrieves the plaintext value of slot.
	// Returns ("", nil) if the slot is empty.
	Get(ctx context.Context, slot string) (string, error)

	// List returns every stored slot with decrypted values.
	List(ctx context.Context) ([]model.Credential, error)

	// Delete empties slot. Deleting an empty slot is not an error.
	Delete(ctx context.Context, slot string) error
}
