package tasks

// TaskSchedulerInterface is what the HTTP layer and main need from the
// background worker pool.
//
//	scheduler := NewScheduler(feedConfig, fetcher, parser, extractor, episodeRepo, shownoteRepo, interval, workerCount)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(scheduler.NewIngestFeedTask())
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	NewIngestFeedTask() *IngestFeedTask
}
