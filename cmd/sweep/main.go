package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/analysis"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/report"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/sweep"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/weighting"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/database"
	apperrors "github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/resilience"
	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/tracing"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	corpora := flag.String("corpus", "", "comma-separated corpus names to sweep (default: all configured)")
	flushCache := flag.Bool("flush-cache", false, "drop cached MAP scores before sweeping")
	flag.Parse()

	if err := run(*configPath, *corpora, *flushCache); err != nil {
		slog.Error("sweep failed", "error", err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func run(configPath, corpora string, flushCache bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if corpora != "" {
		if err := cfg.FilterCorpora(strings.Split(corpora, ",")); err != nil {
			return err
		}
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	runID := uuid.NewString()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithRunID(ctx, runID)
	log := logger.FromContext(ctx)
	log.Info("starting weighting sweep",
		"corpora", len(cfg.Corpora),
		"workers", cfg.Sweep.Workers,
		"stemming", cfg.Sweep.Stemming,
		"true_augmented_tf", cfg.Sweep.TrueAugmentedTF,
	)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(cfg.Metrics.Port, reg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	opts := sweep.Options{
		Workers:   cfg.Sweep.Workers,
		Stemming:  cfg.Sweep.Stemming,
		Weighting: weighting.Options{TrueAugmentedTF: cfg.Sweep.TrueAugmentedTF},
		Stemmer:   analysis.SnowballStemmer{},
		Metrics:   m,
	}
	if cfg.Redis.Enabled {
		client, err := pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("score cache disabled", "error", err)
		} else {
			defer client.Close()
			cache := sweep.NewRedisScoreCache(client, cfg.Redis.CacheTTL)
			if flushCache {
				if err := cache.Invalidate(ctx); err != nil {
					log.Warn("score cache flush failed", "error", err)
				}
			}
			opts.Cache = cache
		}
	}

	out := os.Stdout
	if cfg.Report.Output != "" {
		f, err := os.Create(cfg.Report.Output)
		if err != nil {
			return apperrors.Newf(apperrors.ErrInvalidConfig, "report.output: %v", err)
		}
		defer f.Close()
		out = f
	}
	deliverer, err := buildSinks(ctx, cfg, out, m)
	if err != nil {
		return err
	}
	defer func() {
		if err := deliverer.Close(); err != nil {
			log.Warn("closing report sinks", "error", err)
		}
	}()

	adapters, err := corpus.NewAdapters(cfg.Corpora)
	if err != nil {
		return err
	}

	ctx, span := tracing.StartSpan(ctx, "sweep", runID)
	driver := sweep.New(opts)
	var sinkErrs []error
	for _, adapter := range adapters {
		_, loadSpan := tracing.StartSpan(ctx, "load", "")
		loadSpan.SetAttr("corpus", adapter.Name())
		c, err := adapter.Load()
		loadSpan.End()
		if err != nil {
			return err
		}

		started := time.Now()
		records, err := driver.RunCorpus(ctx, c)
		if err != nil {
			return err
		}
		if err := deliverer.Deliver(ctx, report.Run{
			ID:        runID,
			StartedAt: started,
			Corpus:    c.Name,
			Records:   records,
		}); err != nil {
			sinkErrs = append(sinkErrs, err)
		}
	}
	span.End()
	span.Log(log, 2)

	if len(sinkErrs) > 0 {
		return sinkErrs[0]
	}
	log.Info("weighting sweep finished", "duration", span.Duration)
	return nil
}

func buildSinks(ctx context.Context, cfg *config.Config, out io.Writer, m *metrics.Metrics) (*report.Deliverer, error) {
	sinks := []report.Sink{report.NewWriter(out, cfg.Report.Format, cfg.Report.Top)}

	if cfg.Database.Enabled {
		var client *database.Client
		err := resilience.Retry(ctx, "database.open", resilience.RetryConfig{}, func() error {
			var err error
			client, err = database.Open(ctx, cfg.Database)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrSinkUnavailable, err)
		}
		store, err := report.NewSQLStore(ctx, client)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("%w: %w", apperrors.ErrSinkUnavailable, err)
		}
		sinks = append(sinks, store)
	}
	if cfg.Kafka.Enabled {
		sinks = append(sinks, report.NewKafkaSink(kafka.NewProducer(cfg.Kafka)))
	}
	return report.NewDeliverer(sinks, resilience.RetryConfig{MaxAttempts: 3}, m), nil
}
