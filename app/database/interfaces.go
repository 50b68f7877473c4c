package database

import "context"

type EpisodeRepository interface {
	EpisodeExists(ctx context.Context, link, pubDate string) (bool, error)
	InsertEpisode(ctx context.Context, title, link, pubDate string) (int64, error)

	GetEpisode(ctx context.Context, id int64) (*Episode, error)
	GetEpisodes(ctx context.Context, limit int) ([]Episode, error)
	GetEpisodeCount(ctx context.Context) (int, error)
}

type ShownoteRepository interface {
	InsertShownote(ctx context.Context, episodeID int64, title, link string) error

	GetShownotes(ctx context.Context, episodeID int64) ([]Shownote, error)
	GetShownoteCount(ctx context.Context) (int, error)
}
