package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/port/driven"
)

var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo stores credential slots in SQLite, sealed with AES-256-GCM.
// The slot name is bound as additional data, so a value copied into another
// slot fails to open.
type CredentialRepo struct {
	db     *DB
	aead   cipher.AEAD
	keyErr error
}

// NewCredentialRepo creates a CredentialRepo. key must be 32 bytes. A nil key
// leaves the repo usable only for Delete; Set, Get and List return
// driven.ErrEncryptionKeyNotSet.
func NewCredentialRepo(db *DB, key []byte) *CredentialRepo {
	repo := &CredentialRepo{db: db, keyErr: driven.ErrEncryptionKeyNotSet}
	if key == nil {
		return repo
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		repo.keyErr = fmt.Errorf("credential key: %w", err)
		return repo
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		repo.keyErr = fmt.Errorf("credential key: %w", err)
		return repo
	}
	repo.aead, repo.keyErr = aead, nil
	return repo
}

// Set stores or replaces the value held in slot.
func (r *CredentialRepo) Set(ctx context.Context, slot, plaintext string) error {
	encrypted, err := r.seal(slot, plaintext)
	if err != nil {
		return err
	}

	const query = `INSERT INTO credentials (slot, value, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(slot) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	_, err = r.db.Writer.ExecContext(ctx, query, slot, encrypted)
	if err != nil {
		return fmt.Errorf("set credential %q: %w", slot, err)
	}
	return nil
}

// Get retrieves the plaintext value of slot.
// Returns ("", nil) if the slot is empty.
func (r *CredentialRepo) Get(ctx context.Context, slot string) (string, error) {
	if r.keyErr != nil {
		return "", r.keyErr
	}

	const query = `SELECT value FROM credentials WHERE slot = ?`
	var encrypted string
	err := r.db.Reader.QueryRowContext(ctx, query, slot).Scan(&encrypted)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get credential %q: %w", slot, err)
	}

	plaintext, err := r.open(slot, encrypted)
	if err != nil {
		return "", fmt.Errorf("decrypt credential %q: %w", slot, err)
	}
	return plaintext, nil
}

// List returns all stored slots with decrypted values.
func (r *CredentialRepo) List(ctx context.Context) ([]model.Credential, error) {
	if r.keyErr != nil {
		return nil, r.keyErr
	}

	const query = `SELECT id, slot, value, updated_at FROM credentials ORDER BY slot`
	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var creds []model.Credential
	for rows.Next() {
		var cred model.Credential
		var encrypted string
		var updatedAt string
		if err := rows.Scan(&cred.ID, &cred.Slot, &encrypted, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}

		plaintext, err := r.open(cred.Slot, encrypted)
		if err != nil {
			return nil, fmt.Errorf("decrypt credential %q: %w", cred.Slot, err)
		}
		cred.Value = plaintext

		cred.UpdatedAt, err = parseTime(updatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse updated_at for credential %q: %w", cred.Slot, err)
		}

		creds = append(creds, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}

	return creds, nil
}

// Delete empties slot.
func (r *CredentialRepo) Delete(ctx context.Context, slot string) error {
	const query = `DELETE FROM credentials WHERE slot = ?`
	_, err := r.db.Writer.ExecContext(ctx, query, slot)
	if err != nil {
		return fmt.Errorf("delete credential %q: %w", slot, err)
	}
	return nil
}

// seal returns base64(nonce || ciphertext || tag).
func (r *CredentialRepo) seal(slot, plaintext string) (string, error) {
	if r.keyErr != nil {
		return "", r.keyErr
	}

	nonce := make([]byte, r.aead.NonceSize(), r.aead.NonceSize()+len(plaintext)+r.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := r.aead.Seal(nonce, nonce, []byte(plaintext), []byte(slot))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (r *CredentialRepo) open(slot, encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	if len(data) < r.aead.NonceSize() {
		return "", errors.New("sealed value too short")
	}

	nonce, ciphertext := data[:r.aead.NonceSize()], data[r.aead.NonceSize():]
	plaintext, err := r.aead.Open(nil, nonce, ciphertext, []byte(slot))
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}
	return string(plaintext), nil
}
