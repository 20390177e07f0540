package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/factchecker/satyata/internal/config"
	"github.com/factchecker/satyata/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreAuditLogs(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "audit.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.LogRequest(ctx, &models.AuditLog{
			ID:           uuid.New().String(),
			CallerHash:   "abc123",
			Endpoint:     "/api/fact-check",
			Method:       "POST",
			RequestSize:  int64(100 + i),
			ResponseCode: 200,
			DurationMs:   1500,
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	logs, err := store.GetAuditLogs(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, int64(102), logs[0].RequestSize)
	assert.Equal(t, int64(101), logs[1].RequestSize)
	assert.Equal(t, "abc123", logs[0].CallerHash)
	assert.True(t, logs[0].Timestamp.Equal(base.Add(2*time.Minute)))

	logs, err = store.GetAuditLogs(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(100), logs[0].RequestSize)
}

func TestSQLiteStoreMigrateIsIdempotent(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Migrate())

	logs, err := store.GetAuditLogs(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestOpen(t *testing.T) {
	store, err := Open(&config.DatabaseConfig{Driver: "none"})
	require.NoError(t, err)
	assert.IsType(t, NopStore{}, store)
	assert.NoError(t, store.LogRequest(context.Background(), &models.AuditLog{}))

	store, err = Open(&config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "a.db")})
	require.NoError(t, err)
	assert.NoError(t, store.Close())

	_, err = Open(&config.DatabaseConfig{Driver: "postgres"})
	assert.Error(t, err)
}
