package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"CryptoSeason/internal/domain/models"
	domrepo "CryptoSeason/internal/domain/repository"
	applogger "CryptoSeason/pkg/logger"
)

// SeasonRecordsTable is the archive table name inside the configured database.
const SeasonRecordsTable = "season_records"

const seasonRecordColumns = "asset, fetched_at, year, label, return, volatility, drawdown"

// Execer is satisfied by *sql.DB and pkg/clickhouse.Client.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CHSnapshotSink stores one row per season record in ClickHouse.
type CHSnapshotSink struct {
	db     Execer
	closer func() error
	table  string
	l      *applogger.Logger
}

var _ domrepo.SnapshotSink = (*CHSnapshotSink)(nil)

// NewCHSnapshotSink writes into {database}.season_records. closer, if set,
// is called by Close.
func NewCHSnapshotSink(db Execer, database string, closer func() error) *CHSnapshotSink {
	return &CHSnapshotSink{
		db:     db,
		closer: closer,
		table:  database + "." + SeasonRecordsTable,
		l:      applogger.Nop(),
	}
}

// SetLogger injects a structured logger.
func (s *CHSnapshotSink) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.l = l
	}
}

// SchemaStatements returns the idempotent DDL for database.
func SchemaStatements(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
    asset      LowCardinality(String),
    fetched_at DateTime64(3, 'UTC'),
    year       UInt16,
    label      String,
    return     Float64,
    volatility Float64,
    drawdown   Float64
) ENGINE = ReplacingMergeTree(fetched_at)
ORDER BY (asset, year)`, database, SeasonRecordsTable),
	}
}

// Save inserts the records of snap in one statement. Records whose year does
// not fit the UInt16 column (including a missing year) are skipped.
func (s *CHSnapshotSink) Save(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil || len(snap.Records) == 0 {
		return nil
	}
	q, args, skipped := buildSeasonInsert(s.table, snap)
	if skipped > 0 {
		s.l.Warn("skipping season records without a valid year",
			applogger.String("asset", snap.Asset.String()),
			applogger.Int("skipped", skipped),
		)
	}
	if len(args) == 0 {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		s.l.Error("clickhouse insert season_records error",
			applogger.String("table", s.table),
			applogger.String("asset", snap.Asset.String()),
			applogger.Int("rows", len(snap.Records)),
			applogger.Error(err),
		)
		return fmt.Errorf("insert season records: %w", err)
	}
	return nil
}

func (s *CHSnapshotSink) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}

func buildSeasonInsert(table string, snap *models.Snapshot) (string, []interface{}, int) {
	values := make([]string, 0, len(snap.Records))
	args := make([]interface{}, 0, len(snap.Records)*7)
	fetched := snap.FetchedAt.UTC()
	skipped := 0
	for _, r := range snap.Records {
		if r.Year <= 0 || r.Year > math.MaxUint16 {
			skipped++
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			snap.Asset.String(),
			fetched,
			uint16(r.Year),
			r.Label,
			r.Return,
			r.Volatility,
			r.Drawdown,
		)
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", table, seasonRecordColumns, strings.Join(values, ","))
	return q, args, skipped
}
