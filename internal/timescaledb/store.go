package timescaledb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"access-log-backend/config"
	"access-log-backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

type MetricStore interface {
	StoreMetricEvents(ctx context.Context, events []model.MetricEvent) error
	Close()
}
type timescaleMetricStore struct {
	pool      *pgxpool.Pool
	tableName string
}

const (
	metricEventsTableName = "access_log_events"
	colTime               = "time"
	colMetricName         = "metric_name"
	colRecordID           = "record_id"
	colSource             = "source"
	colTags               = "tags" // JSONB
)

var eventColumns = []string{colTime, colMetricName, colRecordID, colSource, colTags}

func ProvideTimescaleDBPool(lc fx.Lifecycle, cfg *config.Config) (MetricStore, *pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.TimescaleDB.DSN)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse TimescaleDB DSN")
		return nil, nil, fmt.Errorf("invalid TimescaleDB DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Error().Err(err).Msg("Unable to create connection pool to TimescaleDB")
		return nil, nil, fmt.Errorf("failed to connect to TimescaleDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = pool.Ping(pingCtx)
	if err != nil {
		pool.Close()
		log.Error().Err(err).Msg("Failed to ping TimescaleDB")
		return nil, nil, fmt.Errorf("failed to ping TimescaleDB: %w", err)
	}
	log.Info().Msg("TimescaleDB connection pool created and verified.")

	store := &timescaleMetricStore{
		pool:      pool,
		tableName: metricEventsTableName,
	}

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSetup()
	err = store.ensureHypertable(setupCtx)
	if err != nil {
		pool.Close()
		log.Error().Err(err).Msg("Failed to ensure TimescaleDB hypertable exists")
		return nil, nil, fmt.Errorf("failed ensuring hypertable: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing TimescaleDB connection pool...")
			store.Close()
			return nil
		},
	})

	return store, pool, nil
}

func (s *timescaleMetricStore) ensureHypertable(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTableSQL(s.tableName)); err != nil {
		return fmt.Errorf("failed to create base table %s: %w", s.tableName, err)
	}
	// Tables created before record_id existed get the column with an empty default.
	if _, err := s.pool.Exec(ctx, addRecordIDSQL(s.tableName)); err != nil {
		return fmt.Errorf("failed to add %s column to %s: %w", colRecordID, s.tableName, err)
	}
	log.Info().Str("table", s.tableName).Msg("Ensured base table exists.")

	var isHypertable bool
	_ = s.pool.QueryRow(ctx, `SELECT EXISTS (
        SELECT 1 FROM timescaledb_information.hypertables WHERE hypertable_name = $1
    );`, s.tableName).Scan(&isHypertable)

	if !isHypertable {
		log.Info().Str("table", s.tableName).Msg("Table is not a hypertable, attempting to create...")
		if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS timescaledb;"); err != nil {
			log.Warn().Err(err).Msg("Failed to ensure timescaledb extension exists (permission issue?). Trying to proceed...")
		}
		_, err := s.pool.Exec(ctx, createHypertableSQL(s.tableName))
		if err != nil && !strings.Contains(err.Error(), "already a hypertable") {
			return fmt.Errorf("failed to create hypertable %s: %w", s.tableName, err)
		}
		log.Info().Str("table", s.tableName).Msg("Successfully ensured hypertable.")
	}

	// The unique event key backs ON CONFLICT in StoreMetricEvents, so it is required.
	// The rest only speed up queries.
	for i, stmt := range indexStatements(s.tableName) {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			if i == 0 {
				return fmt.Errorf("failed to create event key on %s: %w", s.tableName, err)
			}
			log.Warn().Err(err).Str("statement", stmt).Msg("Failed to create index on metrics table (continuing)")
		}
	}
	log.Info().Str("table", s.tableName).Msg("Ensured indexes exist on metrics table.")
	return nil
}

func createTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s TIMESTAMPTZ NOT NULL,
	%s TEXT NOT NULL,
	%s TEXT NOT NULL DEFAULT '',
	%s TEXT NOT NULL,
	%s JSONB
);`, table, colTime, colMetricName, colRecordID, colSource, colTags)
}

func addRecordIDSQL(table string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s TEXT NOT NULL DEFAULT '';", table, colRecordID)
}

func createHypertableSQL(table string) string {
	return fmt.Sprintf(
		"SELECT create_hypertable('%s', '%s', if_not_exists => TRUE, chunk_time_interval => INTERVAL '1 day');",
		table, colTime)
}

// indexStatements returns the event key first. Unique indexes on a hypertable must
// include the partitioning column. The ip and status_class expression indexes match
// the filters used by the metric repository and the incident detector.
func indexStatements(table string) []string {
	return []string{
		fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]s_event_key ON %[1]s (%[2]s, %[3]s, %[4]s);",
			table, colRecordID, colMetricName, colTime),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_name_ip_time ON %[1]s (%[2]s, (%[3]s->>'ip'), %[4]s DESC);",
			table, colMetricName, colTags, colTime),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_name_status_class_time ON %[1]s (%[2]s, (%[3]s->>'status_class'), %[4]s DESC);",
			table, colMetricName, colTags, colTime),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_name_source_time ON %[1]s (%[2]s, %[3]s, %[4]s DESC);",
			table, colMetricName, colSource, colTime),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_tags ON %[1]s USING GIN (%[2]s);", table, colTags),
	}
}

func stagingTableSQL(table, staging string) string {
	return fmt.Sprintf("CREATE TEMP TABLE %s (LIKE %s INCLUDING DEFAULTS) ON COMMIT DROP;", staging, table)
}

func mergeSQL(table, staging string) string {
	cols := strings.Join(eventColumns, ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s ON CONFLICT DO NOTHING;", table, cols, cols, staging)
}

// metricRows converts events to COPY rows in eventColumns order. Tags that fail
// to marshal are stored as NULL.
func metricRows(events []model.MetricEvent) [][]interface{} {
	rows := make([][]interface{}, 0, len(events))
	for _, e := range events {
		var tags []byte
		if e.Tags != nil {
			b, err := json.Marshal(e.Tags)
			if err != nil {
				log.Error().Err(err).Interface("tags", e.Tags).Msg("Failed to marshal metric tags to JSON, inserting null")
			} else {
				tags = b
			}
		}
		rows = append(rows, []interface{}{e.Time, e.MetricName, e.RecordID, e.Source, tags})
	}
	return rows
}

// StoreMetricEvents copies events into a transaction-scoped staging table and merges
// them into the hypertable, skipping events already stored. Redelivered Kafka batches
// therefore do not double count.
func (s *timescaleMetricStore) StoreMetricEvents(ctx context.Context, events []model.MetricEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("timescaledb begin failed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	staging := s.tableName + "_staging"
	if _, err := tx.Exec(ctx, stagingTableSQL(s.tableName, staging)); err != nil {
		return fmt.Errorf("timescaledb staging table failed: %w", err)
	}

	copyCount, err := tx.CopyFrom(ctx, pgx.Identifier{staging}, eventColumns, pgx.CopyFromRows(metricRows(events)))
	if err != nil {
		log.Error().Err(err).Msg("Failed to bulk copy metric events into staging table")
		return fmt.Errorf("timescaledb copyfrom failed: %w", err)
	}

	tag, err := tx.Exec(ctx, mergeSQL(s.tableName, staging))
	if err != nil {
		return fmt.Errorf("timescaledb merge failed: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("timescaledb commit failed: %w", err)
	}

	inserted := tag.RowsAffected()
	log.Debug().
		Int64("copied", copyCount).
		Int64("inserted", inserted).
		Int64("duplicates", copyCount-inserted).
		Msg("Stored metric events in TimescaleDB")
	return nil
}

func (s *timescaleMetricStore) Close() {
	s.pool.Close()
}
