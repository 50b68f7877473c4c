package api

import (
	"github.com/lysyi3m/shownotes-comb/app/database"
	"github.com/lysyi3m/shownotes-comb/app/tasks"
)

const (
	defaultEpisodeLimit = 50
	maxEpisodeLimit     = 500
)

type Handler struct {
	episodeRepo  database.EpisodeRepository
	shownoteRepo database.ShownoteRepository
	scheduler    tasks.TaskSchedulerInterface
}
