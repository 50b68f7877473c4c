package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lysyi3m/shownotes-comb/app/api"
	"github.com/lysyi3m/shownotes-comb/app/cfg"
	"github.com/lysyi3m/shownotes-comb/app/database"
	"github.com/lysyi3m/shownotes-comb/app/feed"
	"github.com/lysyi3m/shownotes-comb/app/markup"
	"github.com/lysyi3m/shownotes-comb/app/tasks"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Shownotes Comb stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	appCfg, err := cfg.Load()
	if err != nil {
		return err
	}
	if appCfg == nil {
		return nil
	}

	if logFile := setupLogging(appCfg); logFile != nil {
		defer logFile.Close()
	}

	slog.Info("Starting Shownotes Comb", "version", appCfg.Version)

	feedConfig, err := feed.LoadConfig(appCfg.FeedConfig)
	if err != nil {
		return fmt.Errorf("failed to load feed configuration: %w", err)
	}
	slog.Info("Feed configuration loaded", "url", feedConfig.URL, "enabled", feedConfig.Settings.Enabled)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	episodeRepo := database.NewEpisodeRepository(db)
	shownoteRepo := database.NewShownoteRepository(db)

	httpClient := &http.Client{Timeout: feedConfig.TimeoutDuration() + 5*time.Second}
	fetcher := feed.NewFetcher(httpClient, appCfg.UserAgent)
	parser := feed.NewParser()
	extractor := feed.NewShownoteExtractor(markup.NewParser(feedConfig.Markup.ParserConfig()))

	scheduler := tasks.NewScheduler(feedConfig, fetcher, parser, extractor, episodeRepo, shownoteRepo,
		appCfg.SchedulerIntervalDuration(), appCfg.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Scheduler started", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerIntervalDuration().String())

	handler := api.NewHandler(episodeRepo, shownoteRepo, scheduler)
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler, appCfg.APIAccessKey, appCfg.Version),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("Shownotes Comb shutdown complete")
	return nil
}

// setupLogging installs the default slog handler and points gin's access log
// at the same output. With a log file configured, output goes to stdout and
// to a size-rotated file; the returned closer is then non-nil.
func setupLogging(appCfg *cfg.Cfg) io.Closer {
	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}

	var output io.Writer = os.Stdout
	var rotated *lumberjack.Logger
	if appCfg.LogFile != "" {
		rotated = &lumberjack.Logger{
			Filename:   appCfg.LogFile,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		output = io.MultiWriter(os.Stdout, rotated)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level})))
	gin.DefaultWriter = output
	gin.DefaultErrorWriter = output

	if rotated == nil {
		return nil
	}
	return rotated
}
