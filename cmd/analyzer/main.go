package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/config"
	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/collectors"
	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/export"
	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/logging"
	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/pipeline"
	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/sentiment"
	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/sink"
	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/store"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	cfg := config.FromEnv()

	query := flag.String("query", "", "search query (overrides ANALYZER_QUERY)")
	platforms := flag.String("platforms", "", "comma-separated platforms: reddit,socialx,marketplace")
	limit := flag.Int("limit", 0, "max records per platform")
	useTransformer := flag.Bool("transformer", cfg.UseTransformer, "score with the transformer model as well")
	out := flag.String("out", "", "write the run document to this JSON file")
	flag.Parse()

	if *query != "" {
		cfg.Query = *query
	}
	if *platforms != "" {
		cfg.Platforms = config.ParsePlatforms(*platforms)
	}
	if *limit > 0 {
		cfg.LimitPerPlatform = *limit
	}
	cfg.UseTransformer = *useTransformer

	if err := cfg.Validate(); err != nil {
		slog.Error("[Main] Invalid run configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stopChan
		slog.Warn("[Main] Shutdown requested, finishing current batch...")
		cancel()
	}()

	opts := pipeline.Options{}

	if cfg.UseTransformer {
		scorer, err := sentiment.NewTransformerScorer(os.Getenv("MODEL_DIR"))
		if err != nil {
			slog.Warn("[Main] Transformer unavailable, continuing with lexicon-only scoring",
				slog.String("error", err.Error()))
		} else {
			defer scorer.Close()
			opts.Transformer = scorer
		}
	}

	if addr := os.Getenv("VALKEY_INIT_ADDRESS"); addr != "" {
		cache, err := store.NewDedupeCache(store.ValkeyOptions{
			Address:  addr,
			Password: os.Getenv("VALKEY_PASSWORD"),
			UseTLS:   os.Getenv("VALKEY_TLS") == "true",
		})
		if err != nil {
			slog.Warn("[Main] Dedupe cache unavailable", slog.String("error", err.Error()))
		} else {
			defer cache.Close()
			opts.Dedupe = cache
		}
	}

	p := pipeline.New([]collectors.Collector{
		collectors.NewRedditCollector(),
		collectors.NewSocialXCollector(cfg.SocialXToken),
		collectors.NewMarketplaceCollector(),
	}, opts)

	dataset, summary, err := p.Run(ctx, cfg)
	if err != nil {
		slog.Error("[Main] Run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("[Main] Run complete",
		slog.String("run_id", summary.RunID),
		slog.Int("records", summary.TotalRecords),
		slog.String("dominant_label", string(summary.DominantLabel)),
		slog.Float64("agreement_rate", summary.AgreementRate),
		slog.Bool("degraded", summary.Degraded))

	if os.Getenv("ANALYZER_STORE_RESULTS") == "true" {
		region := os.Getenv("AWS_REGION")
		if region == "" {
			region = "us-west-2"
		}
		results, err := store.NewResultStore(ctx, region, os.Getenv("AWS_ENDPOINT"))
		if err != nil {
			slog.Warn("[Main] Result store unavailable", slog.String("error", err.Error()))
		} else if err := results.StoreResults(ctx, summary.RunID, dataset); err != nil {
			slog.Warn("[Main] Failed to persist results", slog.String("error", err.Error()))
		}
	}

	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		publisher, err := sink.NewResultPublisher(broker)
		if err != nil {
			slog.Warn("[Main] Result publisher unavailable", slog.String("error", err.Error()))
		} else {
			if err := publisher.PublishRun(summary, dataset); err != nil {
				slog.Warn("[Main] Failed to publish run", slog.String("error", err.Error()))
			}
			publisher.Close()
		}
	}

	if *out != "" {
		if err := export.WriteFile(*out, summary, dataset); err != nil {
			slog.Error("[Main] Export failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slog.Info("[Main] Run document written", slog.String("path", *out))
	} else if err := export.Write(os.Stdout, summary, dataset); err != nil {
		slog.Error("[Main] Export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
