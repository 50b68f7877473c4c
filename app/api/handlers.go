package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/shownotes-comb/app/database"
	"github.com/lysyi3m/shownotes-comb/app/feed"
	"github.com/lysyi3m/shownotes-comb/app/tasks"
)

func NewHandler(episodeRepo database.EpisodeRepository, shownoteRepo database.ShownoteRepository,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		episodeRepo:  episodeRepo,
		shownoteRepo: shownoteRepo,
		scheduler:    scheduler,
	}
}

// RunIngestion runs one ingestion synchronously and answers with a single
// text line. Counts go out as X-Ingest-* headers; ?format=json returns the
// summary as the body instead.
func (h *Handler) RunIngestion(c *gin.Context) {
	task := h.scheduler.NewIngestFeedTask()
	task.Start()

	err := task.Execute(c.Request.Context())

	setSummaryHeaders(c, task)

	if err != nil {
		status := runErrorStatus(err)
		slog.Error("Ingestion run failed", "feed", task.GetFeedURL(), "id", task.GetID(), "error", err)

		if c.Query("format") == "json" {
			c.JSON(status, gin.H{"error": err.Error(), "summary": task.Summary})
			return
		}
		c.String(status, "%s\n", err.Error())
		return
	}

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, gin.H{
			"id":       task.GetID(),
			"duration": task.GetDuration().String(),
			"summary":  task.Summary,
		})
		return
	}

	c.String(http.StatusOK, "OK")
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]any{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if episodeCount, err := h.episodeRepo.GetEpisodeCount(c.Request.Context()); err == nil {
		health["episodes"] = episodeCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	episodeCount, err := h.episodeRepo.GetEpisodeCount(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "get_episode_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	shownoteCount, err := h.shownoteRepo.GetShownoteCount(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "get_shownote_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"episodes":  episodeCount,
		"shownotes": shownoteCount,
	})
}

func (h *Handler) APIListEpisodes(c *gin.Context) {
	limit := defaultEpisodeLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = min(parsed, maxEpisodeLimit)
	}

	episodes, err := h.episodeRepo.GetEpisodes(c.Request.Context(), limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_episodes", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items := make([]gin.H, 0, len(episodes))
	for _, episode := range episodes {
		items = append(items, episodeJSON(episode))
	}

	c.JSON(http.StatusOK, gin.H{
		"episodes": items,
		"total":    len(items),
	})
}

func (h *Handler) APIGetEpisode(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid episode id"})
		return
	}

	ctx := c.Request.Context()

	episode, err := h.episodeRepo.GetEpisode(ctx, id)
	if err != nil {
		slog.Error("Database error", "operation", "get_episode", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if episode == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Episode not found"})
		return
	}

	shownotes, err := h.shownoteRepo.GetShownotes(ctx, id)
	if err != nil {
		slog.Error("Database error", "operation", "get_shownotes", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	notes := make([]gin.H, 0, len(shownotes))
	for _, shownote := range shownotes {
		notes = append(notes, gin.H{
			"id":         shownote.ID,
			"title":      shownote.Title,
			"link":       shownote.Link,
			"created_at": shownote.CreatedAt,
		})
	}

	details := episodeJSON(*episode)
	details["shownotes"] = notes

	c.JSON(http.StatusOK, details)
}

func (h *Handler) APIEnqueueIngestion(c *gin.Context) {
	task := h.scheduler.NewIngestFeedTask()

	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing ingest task", "feed", task.GetFeedURL(), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue ingest task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Ingestion enqueued",
		"task": gin.H{
			"id":   task.GetID(),
			"type": task.GetType(),
			"feed": task.GetFeedURL(),
		},
	})
}

func episodeJSON(episode database.Episode) gin.H {
	return gin.H{
		"id":         episode.ID,
		"title":      episode.Title,
		"link":       episode.Link,
		"pub_date":   episode.PubDate,
		"created_at": episode.CreatedAt,
	}
}

func setSummaryHeaders(c *gin.Context, task *tasks.IngestFeedTask) {
	c.Header("X-Ingest-Task-Id", task.GetID())
	c.Header("X-Ingest-Total", strconv.Itoa(task.Summary.Total))
	c.Header("X-Ingest-Episodes-Inserted", strconv.Itoa(task.Summary.EpisodesInserted))
	c.Header("X-Ingest-Shownotes-Inserted", strconv.Itoa(task.Summary.ShownotesInserted))
	c.Header("X-Ingest-Duplicates-Skipped", strconv.Itoa(task.Summary.DuplicatesSkipped))
	c.Header("X-Ingest-Fragments-Skipped", strconv.Itoa(task.Summary.FragmentsSkipped))
	c.Header("X-Ingest-Episode-Errors", strconv.Itoa(task.Summary.EpisodeErrors))
	c.Header("X-Ingest-Shownote-Errors", strconv.Itoa(task.Summary.ShownoteErrors))
}

// runErrorStatus maps upstream failures to 502 and everything else to 500.
func runErrorStatus(err error) int {
	var fetchErr *feed.FetchError
	var parseErr *feed.ParseError
	if errors.As(err, &fetchErr) || errors.As(err, &parseErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
