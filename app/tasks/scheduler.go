package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/shownotes-comb/app/database"
	"github.com/lysyi3m/shownotes-comb/app/feed"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const (
	queueSize   = 300
	taskTimeout = 5 * time.Minute
	maxRetryGap = 30 * time.Second
)

type Scheduler struct {
	feedConfig   *feed.Config
	fetcher      *feed.Fetcher
	parser       *feed.Parser
	extractor    *feed.ShownoteExtractor
	episodeRepo  database.EpisodeRepository
	shownoteRepo database.ShownoteRepository
	interval     time.Duration
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	taskQueue    chan TaskInterface
}

// NewScheduler builds the worker pool. An interval of zero or less disables
// periodic runs; the startup run and explicitly enqueued tasks still execute.
func NewScheduler(feedConfig *feed.Config, fetcher *feed.Fetcher, parser *feed.Parser,
	extractor *feed.ShownoteExtractor, episodeRepo database.EpisodeRepository,
	shownoteRepo database.ShownoteRepository, interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if workerCount < 1 {
		workerCount = 1
	}

	return &Scheduler{
		feedConfig:   feedConfig,
		fetcher:      fetcher,
		parser:       parser,
		extractor:    extractor,
		episodeRepo:  episodeRepo,
		shownoteRepo: shownoteRepo,
		interval:     interval,
		workerCount:  workerCount,
		ctx:          ctx,
		cancel:       cancel,
		taskQueue:    make(chan TaskInterface, queueSize),
	}
}

func (s *Scheduler) NewIngestFeedTask() *IngestFeedTask {
	return NewIngestFeedTask(s.feedConfig, s.fetcher, s.parser, s.extractor, s.episodeRepo, s.shownoteRepo)
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.enqueueIngestTask()

		if s.interval <= 0 {
			slog.Debug("Scheduled ingestion disabled")
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueIngestTask()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueIngestTask() {
	if !s.feedConfig.Settings.Enabled {
		slog.Debug("Feed disabled, skipping IngestFeedTask", "feed", s.feedConfig.URL)
		return
	}

	if err := s.EnqueueTask(s.NewIngestFeedTask()); err != nil {
		slog.Warn("Failed to enqueue IngestFeedTask", "feed", s.feedConfig.URL, "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if s.ctx.Err() != nil {
		return
	}

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := retryDelay(task.GetRetryCount())

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "feed", task.GetFeedURL(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	go func() {
		timer := time.NewTimer(retryDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
		case <-timer.C:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			}
		}
	}()
}

// retryDelay doubles from one second per attempt, capped at maxRetryGap.
func retryDelay(retryCount int) time.Duration {
	delay := time.Duration(1<<uint(retryCount-1)) * time.Second
	if delay > maxRetryGap {
		delay = maxRetryGap
	}
	return delay
}
