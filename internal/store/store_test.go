package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// A private in-memory database per test; a shared cache name keeps
	// every pooled connection on the same database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	s, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}
	for _, tt := range tests {
		var got string
		require.NoError(t, s.DB().QueryRow("PRAGMA "+tt.pragma).Scan(&got))
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestOpen_FileDatabaseUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imci.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestSettings(t *testing.T) {
	s := openTestStore(t)
	repo := s.Settings()
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, KeyRole)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, KeyRole, "caregiver"))
	require.NoError(t, repo.Set(ctx, KeyRole, "healthWorker"))

	v, ok, err := repo.Get(ctx, KeyRole)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "healthWorker", v)

	require.NoError(t, repo.Delete(ctx, KeyRole))
	require.NoError(t, repo.Delete(ctx, KeyRole))
	_, ok, err = repo.Get(ctx, KeyRole)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequests_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.Requests()
	ctx := context.Background()

	fixtures := []LLMRequest{
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "counsel", InputTokens: 100, OutputTokens: 50, LatencyMs: 300, Success: true},
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "counsel", InputTokens: 120, OutputTokens: 0, LatencyMs: 100, Success: false, ErrorMessage: "rate limited"},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "summary", InputTokens: 80, OutputTokens: 40, LatencyMs: 200, Success: true},
	}
	for i := range fixtures {
		require.NoError(t, repo.Append(ctx, &fixtures[i]))
		assert.NotZero(t, fixtures[i].ID)
		assert.NotEmpty(t, fixtures[i].RequestID)
	}

	recent, err := repo.Recent(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "gpt-4o-mini", recent[0].Model, "newest first")

	counsel, err := repo.Recent(ctx, QueryOpts{Purpose: "counsel"})
	require.NoError(t, err)
	assert.Len(t, counsel, 2)

	got, err := repo.Get(ctx, fixtures[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Success)
	assert.Equal(t, "rate limited", got.ErrorMessage)
	assert.WithinDuration(t, fixtures[1].Timestamp, got.Timestamp, time.Millisecond)

	missing, err := repo.Get(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.UsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, UsageStats{Key: "counsel", Calls: 2, Failures: 1, InputTokens: 220, OutputTokens: 50, AvgLatencyMs: 200}, byPurpose[0])

	byModel, err := repo.UsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, "claude-haiku-4-5", byModel[0].Key)
}

func TestDefaultDBPath_EnvOverride(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "x.db")
	t.Setenv("IMCI_DB", p)
	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.DirExists(t, filepath.Dir(p))
}

func TestDefaultDBPath_XDG(t *testing.T) {
	t.Setenv("IMCI_DB", "")
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "imci", "imci.db"), got)
}
