package database

import (
	"context"
	"database/sql"
	"time"
)

type episodeRepository struct {
	db *DB
}

var _ EpisodeRepository = (*episodeRepository)(nil)

func NewEpisodeRepository(db *DB) EpisodeRepository {
	return &episodeRepository{db: db}
}

// EpisodeExists reports whether an episode with exactly this link and
// normalized pubDate is stored. It is a plain read: two concurrent callers
// can both see false for the same pair.
func (r *episodeRepository) EpisodeExists(ctx context.Context, link, pubDate string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM episodes
		WHERE link = ? AND pubDate = ?
	`, link, pubDate).Scan(&count)
	if err != nil {
		return false, persistenceError("check episode", err)
	}

	return count > 0, nil
}

func (r *episodeRepository) InsertEpisode(ctx context.Context, title, link, pubDate string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO episodes (title, link, pubDate)
		VALUES (?, ?, ?)
		RETURNING id
	`, title, link, pubDate).Scan(&id)
	if err != nil {
		return 0, persistenceError("insert episode", err)
	}

	return id, nil
}

func (r *episodeRepository) GetEpisode(ctx context.Context, id int64) (*Episode, error) {
	var episode Episode
	var createdAt int64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, link, pubDate, createdAt
		FROM episodes
		WHERE id = ?
	`, id).Scan(&episode.ID, &episode.Title, &episode.Link, &episode.PubDate, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("get episode", err)
	}

	episode.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &episode, nil
}

func (r *episodeRepository) GetEpisodes(ctx context.Context, limit int) ([]Episode, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, link, pubDate, createdAt
		FROM episodes
		ORDER BY pubDate DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, persistenceError("get episodes", err)
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		var episode Episode
		var createdAt int64
		if err := rows.Scan(&episode.ID, &episode.Title, &episode.Link, &episode.PubDate, &createdAt); err != nil {
			return nil, persistenceError("scan episode row", err)
		}
		episode.CreatedAt = time.Unix(createdAt, 0).UTC()
		episodes = append(episodes, episode)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate episode rows", err)
	}

	return episodes, nil
}

func (r *episodeRepository) GetEpisodeCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM episodes").Scan(&count)
	if err != nil {
		return 0, persistenceError("get episode count", err)
	}
	return count, nil
}
