package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
)

func TestNewDB_FileMigratesOnceAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgerdesk.db")
	ctx := context.Background()

	db, err := NewDB(ctx, path)
	require.NoError(t, err)

	version, err := RunMigrations(db.Writer)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	repo := NewCredentialRepo(db, testKey)
	require.NoError(t, repo.Set(ctx, model.SlotAccessToken, "persisted"))
	require.NoError(t, db.Close())

	db, err = NewDB(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	again, err := RunMigrations(db.Writer)
	require.NoError(t, err)
	assert.Equal(t, version, again)

	got, err := NewCredentialRepo(db, testKey).Get(ctx, model.SlotAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got)
}
