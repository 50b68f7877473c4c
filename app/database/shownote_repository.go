package database

import (
	"context"
	"time"
)

type shownoteRepository struct {
	db *DB
}

var _ ShownoteRepository = (*shownoteRepository)(nil)

func NewShownoteRepository(db *DB) ShownoteRepository {
	return &shownoteRepository{db: db}
}

func (r *shownoteRepository) InsertShownote(ctx context.Context, episodeID int64, title, link string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shownotes (episodeId, title, link)
		VALUES (?, ?, ?)
	`, episodeID, title, link)
	if err != nil {
		return persistenceError("insert shownote", err)
	}

	return nil
}

func (r *shownoteRepository) GetShownotes(ctx context.Context, episodeID int64) ([]Shownote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, episodeId, title, link, createdAt
		FROM shownotes
		WHERE episodeId = ?
		ORDER BY id
	`, episodeID)
	if err != nil {
		return nil, persistenceError("get shownotes", err)
	}
	defer rows.Close()

	var shownotes []Shownote
	for rows.Next() {
		var shownote Shownote
		var createdAt int64
		if err := rows.Scan(&shownote.ID, &shownote.EpisodeID, &shownote.Title, &shownote.Link, &createdAt); err != nil {
			return nil, persistenceError("scan shownote row", err)
		}
		shownote.CreatedAt = time.Unix(createdAt, 0).UTC()
		shownotes = append(shownotes, shownote)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate shownote rows", err)
	}

	return shownotes, nil
}

func (r *shownoteRepository) GetShownoteCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shownotes").Scan(&count)
	if err != nil {
		return 0, persistenceError("get shownote count", err)
	}
	return count, nil
}
