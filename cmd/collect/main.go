// Command collect runs exactly one collection cycle and exits. Useful for
// smoke-testing source configuration and for ad-hoc runs from cron-like
// environments.
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
	"github.com/newsscope/newswatch/internal/sources"
	"github.com/newsscope/newswatch/internal/storage"
	"github.com/newsscope/newswatch/internal/translate"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("collect: configuration invalid", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		slog.Error("collect: database connection failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	registry, err := sources.Load(cfg.Collector.FeedsFile, cfg.Collector.ScrapingSourcesFile)
	if err != nil {
		slog.Error("collect: source lists failed to load", "err", err)
		os.Exit(1)
	}

	resultCache := cache.New(ctx, cfg.Cache)
	defer resultCache.Close()

	archiver, err := storage.New(ctx, cfg.Archive)
	if err != nil {
		slog.Error("collect: archiver creation failed", "err", err)
		os.Exit(1)
	}

	enricher := nlp.New(cfg.NLP, resultCache)
	enricher.Start(ctx)
	defer enricher.Stop()

	var mailer alert.Mailer
	if cfg.SMTP.Enabled {
		mailer = alert.NewSMTPMailer(cfg.SMTP, cfg.Alerts)
	}

	col := collector.New(
		registry,
		fetch.New(cfg.Collector.FetchConcurrency, cfg.Collector.FetchTimeout, archiver),
		feed.NewScraper(cfg.Collector.FetchTimeout),
		translate.New(cfg.Translate, resultCache),
		enricher,
		relevance.New(resultCache),
		models.NewArticleStore(pool),
		models.NewRunStore(pool),
		alert.NewDispatcher(cfg.Alerts, models.NewAlertStore(pool), mailer),
	)

	run, err := col.RunCycle(ctx)
	if err != nil {
		slog.Error("collect: cycle interrupted", "err", err)
		os.Exit(1)
	}
	slog.Info("collect: cycle complete",
		"parsed", run.Parsed, "created", run.Created, "updated", run.Updated,
		"alerts", run.AlertsSent, "errors", run.Errors)
}
