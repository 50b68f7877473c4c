package tasks

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lysyi3m/shownotes-comb/app/database"
	"github.com/lysyi3m/shownotes-comb/app/feed"
	"github.com/lysyi3m/shownotes-comb/app/metrics"
)

// Summary counts what one ingestion run did.
type Summary struct {
	Total             int `json:"total"`
	EpisodesInserted  int `json:"episodes_inserted"`
	ShownotesInserted int `json:"shownotes_inserted"`
	DuplicatesSkipped int `json:"duplicates_skipped"`
	FragmentsSkipped  int `json:"fragments_skipped"`
	EpisodeErrors     int `json:"episode_errors"`
	ShownoteErrors    int `json:"shownote_errors"`
}

type IngestFeedTask struct {
	Task
	FeedConfig   *feed.Config
	Summary      Summary
	FeedTitle    string
	fetcher      *feed.Fetcher
	parser       *feed.Parser
	extractor    *feed.ShownoteExtractor
	episodeRepo  database.EpisodeRepository
	shownoteRepo database.ShownoteRepository
}

func NewIngestFeedTask(feedConfig *feed.Config, fetcher *feed.Fetcher, parser *feed.Parser, extractor *feed.ShownoteExtractor, episodeRepo database.EpisodeRepository, shownoteRepo database.ShownoteRepository) *IngestFeedTask {
	return &IngestFeedTask{
		Task:         NewTask(TaskTypeIngestFeed, feedConfig.URL),
		FeedConfig:   feedConfig,
		fetcher:      fetcher,
		parser:       parser,
		extractor:    extractor,
		episodeRepo:  episodeRepo,
		shownoteRepo: shownoteRepo,
	}
}

// Execute fetches the feed and stores every episode not already present,
// together with the show-notes found in its description. Only fetch, parse
// and cancellation errors are returned; per-episode failures are counted in
// the summary and the run carries on.
func (t *IngestFeedTask) Execute(ctx context.Context) error {
	t.Summary = Summary{}
	t.FeedTitle = ""
	started := time.Now()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.FeedConfig.Settings.Enabled {
		slog.Debug("Feed disabled, skipping", "feed", t.FeedURL)
		return nil
	}

	err := t.run(ctx)
	metrics.IngestRunDuration.Observe(time.Since(started).Seconds())
	metrics.IngestRuns.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", "IngestedFeed",
		"feed", t.FeedURL,
		"title", t.FeedTitle,
		"duration", t.GetDuration(),
		"total", t.Summary.Total,
		"new", t.Summary.EpisodesInserted,
		"shownotes", t.Summary.ShownotesInserted,
		"duplicates", t.Summary.DuplicatesSkipped,
		"skipped_fragments", t.Summary.FragmentsSkipped,
		"episode_errors", t.Summary.EpisodeErrors,
		"shownote_errors", t.Summary.ShownoteErrors)

	return nil
}

func (t *IngestFeedTask) run(ctx context.Context) error {
	data, err := t.fetcher.Run(ctx, t.FeedConfig.URL, t.FeedConfig.TimeoutDuration())
	if err != nil {
		return err
	}

	metadata, episodes, err := t.parser.Run(data)
	if err != nil {
		return err
	}
	t.FeedTitle = metadata.Title
	slog.Debug("Feed parsed", "feed", t.FeedURL, "title", metadata.Title, "episodes", len(episodes))

	for episode := range t.parser.Episodes(episodes) {
		if err := ctx.Err(); err != nil {
			return err
		}

		t.Summary.Total++
		t.ingestEpisode(ctx, episode)
	}

	return nil
}

func (t *IngestFeedTask) ingestEpisode(ctx context.Context, episode feed.Episode) {
	pubDate, err := episode.NormalizedPubDate()
	if err != nil {
		t.Summary.EpisodeErrors++
		slog.Error("Failed to normalize pubDate, skipping episode", "feed", t.FeedURL, "episode", episode.Title, "error", err)
		return
	}

	exists, err := t.episodeRepo.EpisodeExists(ctx, episode.Link, pubDate)
	if err != nil {
		t.recordPersistenceError(err)
		t.Summary.EpisodeErrors++
		slog.Error("Failed to check episode, skipping", "feed", t.FeedURL, "episode", episode.Title, "error", err)
		return
	}
	if exists {
		t.Summary.DuplicatesSkipped++
		metrics.EpisodesDuplicate.Inc()
		slog.Debug("Episode already stored", "episode", episode.Title, "link", episode.Link, "pub_date", pubDate)
		return
	}

	episodeID, err := t.episodeRepo.InsertEpisode(ctx, episode.Title, episode.Link, pubDate)
	if err != nil {
		t.recordPersistenceError(err)
		t.Summary.EpisodeErrors++
		slog.Error("Failed to insert episode, skipping", "feed", t.FeedURL, "episode", episode.Title, "error", err)
		return
	}
	t.Summary.EpisodesInserted++
	metrics.EpisodesInserted.Inc()

	extraction := t.extractor.Run(episode.Description)
	for _, skipped := range extraction.Skipped {
		t.Summary.FragmentsSkipped++
		metrics.FragmentsSkipped.WithLabelValues(string(skipped.Reason)).Inc()
		slog.Warn("Skipped show-note fragment", "episode", episode.Title, "reason", skipped.Reason, "fragment", skipped.Raw)
	}

	for _, shownote := range extraction.Shownotes {
		if err := t.shownoteRepo.InsertShownote(ctx, episodeID, shownote.Title, shownote.Link); err != nil {
			t.recordPersistenceError(err)
			t.Summary.ShownoteErrors++
			slog.Error("Failed to insert shownote, abandoning remaining shownotes", "episode", episode.Title, "episode_id", episodeID, "error", err)
			return
		}
		t.Summary.ShownotesInserted++
		metrics.ShownotesInserted.Inc()
	}
}

func (t *IngestFeedTask) recordPersistenceError(err error) {
	var persistenceErr *database.PersistenceError
	if errors.As(err, &persistenceErr) {
		metrics.PersistenceErrors.WithLabelValues(persistenceErr.Op).Inc()
	}
}

func outcome(err error) string {
	var fetchErr *feed.FetchError
	var parseErr *feed.ParseError

	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &fetchErr):
		return metrics.OutcomeFetchError
	case errors.As(err, &parseErr):
		return metrics.OutcomeParseError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeError
	}
}
