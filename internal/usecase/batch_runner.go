package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
	domrepo "github.com/fslick/fundamentals-yf/internal/domain/repository"
	"github.com/fslick/fundamentals-yf/pkg/logger"
)

const DefaultConcurrency = 3

// Builder builds one symbol's report.
type Builder interface {
	Build(ctx context.Context, symbol string) (*models.Report, error)
}

// BatchRunner builds many symbols with bounded parallelism. A failing symbol
// never cancels its siblings.
type BatchRunner struct {
	builder     Builder
	concurrency int
	log         *logger.Logger
	metrics     domrepo.Metrics
}

func NewBatchRunner(builder Builder, concurrency int, log *logger.Logger, metrics domrepo.Metrics) *BatchRunner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = logger.Nop()
	}
	return &BatchRunner{builder: builder, concurrency: concurrency, log: log, metrics: metrics}
}

// Run returns one result per input symbol, in input order.
func (r *BatchRunner) Run(ctx context.Context, symbols []string) []models.SymbolResult {
	start := time.Now()
	results := make([]models.SymbolResult, len(symbols))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, symbol := range symbols {
		g.Go(func() error {
			res := models.SymbolResult{Symbol: symbol}
			if err := ctx.Err(); err != nil {
				res.Err = err
			} else {
				res.Report, res.Err = r.builder.Build(ctx, symbol)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
	}
	took := time.Since(start)
	if r.metrics != nil {
		r.metrics.RecordLatency("batch", took.Seconds())
	}
	r.log.Info("batch finished",
		logger.Int("symbols", len(symbols)),
		logger.Int("failed", failed),
		logger.Int("concurrency", r.concurrency),
		logger.Duration("took_ms", took),
	)
	return results
}
