// Command worker runs the NewsWatch collection pipeline. Every cycle it
// fetches the configured feeds and scraped sites, enriches the items with
// language detection, translation, and sentiment, classifies them, and
// persists government-relevant coverage with review alerts for negative
// scheme news.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/newsscope/newswatch/internal/alert"
	"github.com/newsscope/newswatch/internal/cache"
	"github.com/newsscope/newswatch/internal/collector"
	"github.com/newsscope/newswatch/internal/config"
	"github.com/newsscope/newswatch/internal/db"
	"github.com/newsscope/newswatch/internal/feed"
	"github.com/newsscope/newswatch/internal/fetch"
	"github.com/newsscope/newswatch/internal/models"
	"github.com/newsscope/newswatch/internal/nlp"
	"github.com/newsscope/newswatch/internal/relevance"
	"github.com/newsscope/newswatch/internal/scheduler"
	"github.com/newsscope/newswatch/internal/sources"
	"github.com/newsscope/newswatch/internal/storage"
	"github.com/newsscope/newswatch/internal/translate"
)

func main() {
	// Structured JSON logging.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("worker: starting newswatch worker")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("worker: configuration invalid", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		slog.Error("worker: database connection failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	registry, err := sources.Load(cfg.Collector.FeedsFile, cfg.Collector.ScrapingSourcesFile)
	if err != nil {
		slog.Error("worker: source lists failed to load", "err", err)
		os.Exit(1)
	}

	resultCache := cache.New(ctx, cfg.Cache)
	defer resultCache.Close()

	archiver, err := storage.New(ctx, cfg.Archive)
	if err != nil {
		slog.Error("worker: archiver creation failed", "err", err)
		os.Exit(1)
	}

	enricher := nlp.New(cfg.NLP, resultCache)
	enricher.Start(ctx)
	defer enricher.Stop()

	var mailer alert.Mailer
	if cfg.SMTP.Enabled {
		mailer = alert.NewSMTPMailer(cfg.SMTP, cfg.Alerts)
	}
	dispatcher := alert.NewDispatcher(cfg.Alerts, models.NewAlertStore(pool), mailer)

	col := collector.New(
		registry,
		fetch.New(cfg.Collector.FetchConcurrency, cfg.Collector.FetchTimeout, archiver),
		feed.NewScraper(cfg.Collector.FetchTimeout),
		translate.New(cfg.Translate, resultCache),
		enricher,
		relevance.New(resultCache),
		models.NewArticleStore(pool),
		models.NewRunStore(pool),
		dispatcher,
	)

	sched := scheduler.New(
		cfg.Collector.Interval(),
		cfg.Collector.GracePeriod,
		func(ctx context.Context) {
			if _, err := col.RunCycle(ctx); err != nil && ctx.Err() == nil {
				slog.Error("worker: cycle failed", "err", err)
			}
		},
	)
	if err := sched.Start(ctx); err != nil {
		slog.Error("worker: scheduler start failed", "err", err)
		os.Exit(1)
	}

	// Graceful shutdown: stop the ticker, give the in-flight cycle its grace
	// window, then exit.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	slog.Info("worker: received shutdown signal", "signal", sig.String())

	cancel()
	if !sched.Stop() {
		slog.Warn("worker: cycle aborted by grace timeout")
	}

	pool.Close()
	slog.Info("worker: shutdown complete")
}
