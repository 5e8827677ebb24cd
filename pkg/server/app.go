package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
	domrepo "github.com/fslick/fundamentals-yf/internal/domain/repository"
	"github.com/fslick/fundamentals-yf/internal/repository"
	"github.com/fslick/fundamentals-yf/internal/usecase"
	"github.com/fslick/fundamentals-yf/pkg/config"
	xhttp "github.com/fslick/fundamentals-yf/pkg/http"
	pkgkafka "github.com/fslick/fundamentals-yf/pkg/kafka"
	"github.com/fslick/fundamentals-yf/pkg/logger"
	"github.com/fslick/fundamentals-yf/pkg/util"
)

// Run modes.
const (
	ModeBatch = "batch"
	ModeServe = "serve"
)

var (
	ErrNoSymbols  = errors.New("no symbols to process")
	ErrAllFailed  = errors.New("every symbol failed")
	ErrNoConsumer = errors.New("kafka consumer enabled without a report publisher")
)

// Sinks are the optional destinations of finished reports. Nil members are
// disabled.
type Sinks struct {
	Writer    domrepo.ReportWriter
	Store     domrepo.ReportStore
	Publisher domrepo.ReportPublisher
}

// App owns the application lifecycle for both run modes.
type App struct {
	cfg        *config.Config
	log        *logger.Logger
	runner     *usecase.BatchRunner
	sinks      Sinks
	consumer   *pkgkafka.Consumer
	requests   pkgkafka.MessageHandler
	httpServer *xhttp.Server
	now        func() time.Time
}

// New creates the App. consumer, requests and httpServer may be nil when the
// matching feature is disabled.
func New(
	cfg *config.Config,
	log *logger.Logger,
	runner *usecase.BatchRunner,
	sinks Sinks,
	consumer *pkgkafka.Consumer,
	requests pkgkafka.MessageHandler,
	httpServer *xhttp.Server,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		runner:     runner,
		sinks:      sinks,
		consumer:   consumer,
		requests:   requests,
		httpServer: httpServer,
		now:        time.Now,
	}
}

// Run dispatches to the requested mode and blocks until it finishes or ctx is
// cancelled.
func (a *App) Run(ctx context.Context, mode string, symbols []string) error {
	switch mode {
	case "", ModeBatch:
		if len(symbols) == 0 {
			symbols = a.cfg.Batch.Symbols
		}
		return a.RunBatch(ctx, symbols)
	case ModeServe:
		return a.Serve(ctx)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// RunBatch builds every symbol, writes the tabular outputs and ships the
// successful reports to the enabled sinks. It fails only when no symbol
// succeeded or an output could not be written.
func (a *App) RunBatch(ctx context.Context, symbols []string) error {
	symbols = util.NormalizeSymbols(symbols)
	if len(symbols) == 0 {
		return ErrNoSymbols
	}

	runAt := a.now().UTC()
	a.log.Info("batch started", logger.Strings("symbols", symbols))
	results := a.runner.Run(ctx, symbols)

	reports := make([]*models.Report, 0, len(results))
	for _, res := range results {
		if !res.OK() {
			a.log.Warn("symbol failed", logger.Symbol(res.Symbol), logger.Error(res.Err))
			continue
		}
		reports = append(reports, res.Report)
	}

	var errs []error
	if a.sinks.Writer != nil {
		if err := a.sinks.Writer.Write(results); err != nil {
			errs = append(errs, fmt.Errorf("write outputs: %w", err))
		}
	}
	if err := a.ship(ctx, runAt, reports); err != nil {
		errs = append(errs, err)
	}

	a.log.Info("batch done",
		logger.Int("ok", len(reports)),
		logger.Int("failed", len(results)-len(reports)),
	)
	if len(reports) == 0 {
		errs = append(errs, ErrAllFailed)
	}
	return errors.Join(errs...)
}

// ship sends reports to ClickHouse and Kafka. Sink failures are logged and
// reported but never drop the CSV output.
func (a *App) ship(ctx context.Context, runAt time.Time, reports []*models.Report) error {
	if len(reports) == 0 {
		return nil
	}
	var errs []error
	if a.sinks.Store != nil {
		rows, err := repository.LongRows(reports)
		if err == nil {
			err = a.sinks.Store.Save(ctx, runAt, rows)
		}
		if err != nil {
			a.log.Error("report store failed", logger.Error(err))
			errs = append(errs, fmt.Errorf("store reports: %w", err))
		} else {
			a.log.Info("reports stored", logger.Int("rows", len(rows)))
		}
	}
	if a.sinks.Publisher != nil {
		if err := a.sinks.Publisher.PublishBatch(ctx, reports); err != nil {
			a.log.Error("report publish failed", logger.Error(err))
			errs = append(errs, fmt.Errorf("publish reports: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Serve runs the HTTP API and, when configured, the report request consumer
// until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	if a.httpServer == nil {
		return errors.New("http server is not configured")
	}

	if a.consumer != nil {
		if a.requests == nil {
			return ErrNoConsumer
		}
		a.consumer.RegisterHandler(a.requests)
		if err := a.consumer.Start(); err != nil {
			return fmt.Errorf("start kafka consumer: %w", err)
		}
		a.log.Info("kafka consumer started", logger.String("topic", a.requests.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.stopConsumer()
		return err
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.httpServer.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	a.stopConsumer()
	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}

func (a *App) stopConsumer() {
	if a.consumer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.consumer.Stop(ctx); err != nil {
		a.log.Warn("kafka consumer stop error", logger.Error(err))
	}
}
