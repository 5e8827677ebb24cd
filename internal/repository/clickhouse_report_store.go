package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	domrepo "github.com/fslick/fundamentals-yf/internal/domain/repository"
	pkgch "github.com/fslick/fundamentals-yf/pkg/clickhouse"
	"github.com/fslick/fundamentals-yf/pkg/logger"
)

const (
	reportTable     = "report_values"
	insertChunkSize = 2000
)

// CHReportStore persists flattened report rows in ClickHouse, one row per
// (run, symbol, key).
type CHReportStore struct {
	ch    *pkgch.Client
	db    *sql.DB
	table string
	log   *logger.Logger
}

var _ domrepo.ReportStore = (*CHReportStore)(nil)

func NewCHReportStore(ch *pkgch.Client, log *logger.Logger) *CHReportStore {
	if log == nil {
		log = logger.Nop()
	}
	return &CHReportStore{
		ch:    ch,
		db:    ch.DB(),
		table: ch.Database() + "." + reportTable,
		log:   log,
	}
}

// Schema returns the DDL for the report table.
func (s *CHReportStore) Schema() []string {
	db := s.table[:strings.IndexByte(s.table, '.')]
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", db),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			run_at DateTime64(3, 'UTC'),
			symbol LowCardinality(String),
			key    String,
			value  String
		) ENGINE = MergeTree
		PARTITION BY toYYYYMM(run_at)
		ORDER BY (symbol, key, run_at)`, s.table),
	}
}

// Init creates the database and table when missing.
func (s *CHReportStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, s.Schema())
}

// Save inserts rows in multi-row VALUES chunks.
func (s *CHReportStore) Save(ctx context.Context, runAt time.Time, rows []domrepo.ReportRow) error {
	start := time.Now()
	for lo := 0; lo < len(rows); lo += insertChunkSize {
		hi := min(lo+insertChunkSize, len(rows))
		q, args := buildInsert(s.table, runAt, rows[lo:hi])
		if q == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			s.log.Error("clickhouse report insert failed",
				logger.String("table", s.table),
				logger.Int("rows", hi-lo),
				logger.Error(err),
			)
			return fmt.Errorf("insert report rows: %w", err)
		}
	}
	s.log.Debug("clickhouse report rows saved",
		logger.Int("rows", len(rows)),
		logger.Duration("took_ms", time.Since(start)),
	)
	return nil
}

func buildInsert(table string, runAt time.Time, rows []domrepo.ReportRow) (string, []any) {
	values := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*4)
	for _, r := range rows {
		if r.Symbol == "" || r.Key == "" {
			continue
		}
		values = append(values, "(?, ?, ?, ?)")
		args = append(args, runAt.UTC(), r.Symbol, r.Key, r.Value)
	}
	if len(values) == 0 {
		return "", nil
	}
	q := fmt.Sprintf("INSERT INTO %s (run_at, symbol, key, value) VALUES %s", table, strings.Join(values, ","))
	return q, args
}

func (s *CHReportStore) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

func (s *CHReportStore) Close() error {
	return s.ch.Close()
}
