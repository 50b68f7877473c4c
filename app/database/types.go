package database

import (
	"time"
)

type Episode struct {
	ID        int64
	Title     string
	Link      string
	PubDate   string // ISO-8601 UTC, see feed.PubDateLayout
	CreatedAt time.Time
}

type Shownote struct {
	ID        int64
	EpisodeID int64
	Title     string
	Link      string
	CreatedAt time.Time
}
