package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/config"
	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/collectors"
	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/preprocess"
	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/sentiment"
)

const DefaultPlatformTimeout = 60 * time.Second

// Dedupe is an optional seen-record cache so repeated runs against the same
// query do not re-ingest identical records.
type Dedupe interface {
	Seen(ctx context.Context, platform models.Platform, id string) bool
	Mark(ctx context.Context, platform models.Platform, id string) error
}

// Options tune one Pipeline. Transformer may be nil, in which case every
// run is lexicon-only.
type Options struct {
	Transformer     sentiment.BatchScorer
	Dedupe          Dedupe
	PlatformTimeout time.Duration
	Workers         int
}

// Pipeline wires Collector → Preprocessor → {Lexicon, Transformer} →
// Reconciler → UnifiedDataset. It is the only component aware of all the
// others.
type Pipeline struct {
	collectors  map[models.Platform]collectors.Collector
	pre         *preprocess.Preprocessor
	lexicon     *sentiment.LexiconScorer
	transformer sentiment.BatchScorer
	dedupe      Dedupe
	timeout     time.Duration
	workers     int
}

func New(available []collectors.Collector, opts Options) *Pipeline {
	byPlatform := make(map[models.Platform]collectors.Collector, len(available))
	for _, c := range available {
		byPlatform[c.Platform()] = c
	}

	timeout := opts.PlatformTimeout
	if timeout <= 0 {
		timeout = DefaultPlatformTimeout
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Pipeline{
		collectors:  byPlatform,
		pre:         preprocess.New(),
		lexicon:     sentiment.NewLexiconScorer(),
		transformer: opts.Transformer,
		dedupe:      opts.Dedupe,
		timeout:     timeout,
		workers:     workers,
	}
}

// Run drives one online analysis run: collect from every selected platform,
// score, reconcile, aggregate. A platform failure never aborts its siblings;
// a transformer failure degrades the run to lexicon-only scoring.
func (p *Pipeline) Run(ctx context.Context, cfg config.RunConfig) (*models.UnifiedDataset, models.Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, models.Summary{}, err
	}

	records, platformErrs := p.collectAll(ctx, cfg)
	return p.process(ctx, cfg.Query, records, cfg.UseTransformer, platformErrs)
}

// RunRecords is the upload entry point: records are already parsed into the
// RawRecord schema by the external upload layer. Scoring and reconciliation
// are shared with the collector path.
func (p *Pipeline) RunRecords(ctx context.Context, records []models.RawRecord, useTransformer bool) (*models.UnifiedDataset, models.Summary, error) {
	return p.process(ctx, "", dropEmpty(records), useTransformer, nil)
}

type collectResult struct {
	records []models.RawRecord
	err     error
}

// collectAll fans the selected platforms out concurrently, each under its
// own timeout, and gathers the results back in configured platform order so
// dataset insertion order stays deterministic.
func (p *Pipeline) collectAll(ctx context.Context, cfg config.RunConfig) ([]models.RawRecord, map[models.Platform]string) {
	results := make([]collectResult, len(cfg.Platforms))

	var wg sync.WaitGroup
	for i, platform := range cfg.Platforms {
		collector, ok := p.collectors[platform]
		if !ok {
			// A configuration error, reported like any other platform
			// failure so the summary can tell it from "no results".
			results[i] = collectResult{err: fmt.Errorf("no collector available for platform %q", platform)}
			continue
		}

		wg.Add(1)
		go func(i int, c collectors.Collector) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()

			records, err := c.Fetch(fetchCtx, cfg.Query, cfg.LimitPerPlatform)
			results[i] = collectResult{records: records, err: err}
		}(i, collector)
	}
	wg.Wait()

	platformErrs := make(map[models.Platform]string)
	var all []models.RawRecord

	for i, platform := range cfg.Platforms {
		res := results[i]
		if res.err != nil {
			platformErrs[platform] = res.err.Error()
			if errors.Is(res.err, collectors.ErrMissingCredential) {
				slog.Error("[Pipeline] Platform misconfigured",
					slog.String("platform", string(platform)),
					slog.String("error", res.err.Error()))
			} else {
				slog.Warn("[Pipeline] Collection failed, platform contributes partial or zero records",
					slog.String("platform", string(platform)),
					slog.String("error", res.err.Error()))
			}
		}

		for _, record := range dropEmpty(res.records) {
			if p.dedupe != nil {
				if p.dedupe.Seen(ctx, platform, record.ID) {
					continue
				}
				if err := p.dedupe.Mark(ctx, platform, record.ID); err != nil {
					slog.Warn("[Pipeline] Failed to mark record as seen",
						slog.String("record_id", record.ID),
						slog.String("error", err.Error()))
				}
			}
			all = append(all, record)
		}
	}

	return all, platformErrs
}

func (p *Pipeline) process(ctx context.Context, query string, records []models.RawRecord, useTransformer bool, platformErrs map[models.Platform]string) (*models.UnifiedDataset, models.Summary, error) {
	cleans := p.preprocessAll(records)
	lexScores := p.scoreLexiconAll(cleans)

	var trScores []*models.TransformerScore
	degraded := false
	if useTransformer && p.transformer != nil {
		trScores, degraded = p.scoreTransformerAll(ctx, cleans)
	} else if useTransformer {
		// Requested but never initialized: surfaced once here, not per
		// record.
		degraded = true
		slog.Warn("[Pipeline] Transformer scorer unavailable, run degrades to lexicon-only scoring")
	}

	dataset := models.NewUnifiedDataset()
	for i, record := range records {
		var tr *models.TransformerScore
		if trScores != nil {
			tr = trScores[i]
		}
		dataset.Append(record, sentiment.Reconcile(record, lexScores[i], tr))
	}

	summary := Summarize(dataset, query, degraded, platformErrs)
	return dataset, summary, nil
}

// preprocessAll cleans records in parallel. Each record is independent, so
// results are written back by index with no shared state.
func (p *Pipeline) preprocessAll(records []models.RawRecord) []models.CleanText {
	cleans := make([]models.CleanText, len(records))
	p.forEach(len(records), func(i int) {
		cleans[i] = p.pre.Clean(records[i].Text, records[i].Platform)
	})
	return cleans
}

func (p *Pipeline) scoreLexiconAll(cleans []models.CleanText) []models.LexiconScore {
	scores := make([]models.LexiconScore, len(cleans))
	p.forEach(len(cleans), func(i int) {
		scores[i] = p.lexicon.Score(cleans[i])
	})
	return scores
}

// scoreTransformerAll batches texts through the model. A batch is atomic:
// cancellation is honored only between batches. An inference failure
// degrades that batch to lexicon-only scoring; later batches still run.
func (p *Pipeline) scoreTransformerAll(ctx context.Context, cleans []models.CleanText) ([]*models.TransformerScore, bool) {
	scores := make([]*models.TransformerScore, len(cleans))
	degraded := false

	for start := 0; start < len(cleans); start += sentiment.TransformerBatchSize {
		if ctx.Err() != nil {
			slog.Warn("[Pipeline] Run cancelled, stopping transformer scoring at batch boundary")
			degraded = true
			break
		}

		end := start + sentiment.TransformerBatchSize
		if end > len(cleans) {
			end = len(cleans)
		}

		texts := make([]string, 0, end-start)
		for _, clean := range cleans[start:end] {
			texts = append(texts, clean.ForTransformer)
		}

		batch, err := p.transformer.ScoreBatch(texts)
		if err != nil {
			slog.Error("[Pipeline] Transformer scoring failed, batch degrades to lexicon-only",
				slog.Int("batch_start", start),
				slog.String("error", err.Error()))
			degraded = true
			continue
		}

		for j := range batch {
			score := batch[j]
			scores[start+j] = &score
		}
	}

	return scores, degraded
}

// forEach runs fn over [0, n) with the pipeline's worker parallelism.
func (p *Pipeline) forEach(n int, fn func(i int)) {
	if n == 0 {
		return
	}

	workers := p.workers
	if workers > n {
		workers = n
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				fn(i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
}

// dropEmpty enforces the RawRecord invariant: empty text never enters the
// pipeline.
func dropEmpty(records []models.RawRecord) []models.RawRecord {
	kept := records[:0:0]
	for _, record := range records {
		if record.Text == "" {
			slog.Debug("[Pipeline] Dropping record with empty text", slog.String("record_id", record.ID))
			continue
		}
		kept = append(kept, record)
	}
	return kept
}
