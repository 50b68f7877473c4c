package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, _, err = RunMigrations(db)
	require.NoError(t, err)

	return db
}

func TestRunMigrations(t *testing.T) {
	db := newTestDB(t)

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	var tables int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('episodes', 'shownotes')`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 2, tables)

	var unique int
	err = db.QueryRow(`SELECT COUNT(*) FROM pragma_index_list('episodes') WHERE "unique" = 1`).Scan(&unique)
	require.NoError(t, err)
	assert.Zero(t, unique, "episodes must not carry a uniqueness constraint")
}

func TestEpisodeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEpisodeRepository(newTestDB(t))

	exists, err := repo.EpisodeExists(ctx, "https://rebuild.fm/400/", "2023-07-03T10:00:00.000Z")
	require.NoError(t, err)
	assert.False(t, exists)

	id, err := repo.InsertEpisode(ctx, "400: Episode", "https://rebuild.fm/400/", "2023-07-03T10:00:00.000Z")
	require.NoError(t, err)
	assert.Positive(t, id)

	exists, err = repo.EpisodeExists(ctx, "https://rebuild.fm/400/", "2023-07-03T10:00:00.000Z")
	require.NoError(t, err)
	assert.True(t, exists)

	// Both fields must match.
	exists, err = repo.EpisodeExists(ctx, "https://rebuild.fm/400/", "2023-07-04T10:00:00.000Z")
	require.NoError(t, err)
	assert.False(t, exists)

	episode, err := repo.GetEpisode(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, episode)
	assert.Equal(t, "400: Episode", episode.Title)
	assert.Equal(t, "2023-07-03T10:00:00.000Z", episode.PubDate)
	assert.False(t, episode.CreatedAt.IsZero())

	second, err := repo.InsertEpisode(ctx, "401: Next", "https://rebuild.fm/401/", "2023-07-10T10:00:00.000Z")
	require.NoError(t, err)
	assert.Greater(t, second, id)

	episodes, err := repo.GetEpisodes(ctx, 10)
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	assert.Equal(t, second, episodes[0].ID)

	count, err := repo.GetEpisodeCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	missing, err := repo.GetEpisode(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestShownoteRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	episodeRepo := NewEpisodeRepository(db)
	shownoteRepo := NewShownoteRepository(db)

	episodeID, err := episodeRepo.InsertEpisode(ctx, "400: Episode", "https://rebuild.fm/400/", "2023-07-03T10:00:00.000Z")
	require.NoError(t, err)

	require.NoError(t, shownoteRepo.InsertShownote(ctx, episodeID, "Link A", "https://example.com/a"))
	require.NoError(t, shownoteRepo.InsertShownote(ctx, episodeID, "Link B", "https://example.com/b"))

	shownotes, err := shownoteRepo.GetShownotes(ctx, episodeID)
	require.NoError(t, err)
	require.Len(t, shownotes, 2)
	assert.Equal(t, "Link A", shownotes[0].Title)
	assert.Equal(t, "https://example.com/b", shownotes[1].Link)
	assert.Equal(t, episodeID, shownotes[0].EpisodeID)

	count, err := shownoteRepo.GetShownoteCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestShownoteRequiresEpisode(t *testing.T) {
	ctx := context.Background()
	repo := NewShownoteRepository(newTestDB(t))

	err := repo.InsertShownote(ctx, 42, "Orphan", "https://example.com/orphan")
	require.Error(t, err)

	var persistenceErr *PersistenceError
	require.True(t, errors.As(err, &persistenceErr))
	assert.Equal(t, "insert shownote", persistenceErr.Op)
}

func TestPersistenceErrorOnClosedDatabase(t *testing.T) {
	db := newTestDB(t)
	repo := NewEpisodeRepository(db)
	require.NoError(t, db.Close())

	_, err := repo.EpisodeExists(context.Background(), "x", "y")

	var persistenceErr *PersistenceError
	require.True(t, errors.As(err, &persistenceErr))
	assert.Equal(t, "check episode", persistenceErr.Op)
	assert.Contains(t, err.Error(), "failed to check episode")
}
