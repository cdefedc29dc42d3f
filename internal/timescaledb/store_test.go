package timescaledb

import (
	"strings"
	"testing"
	"time"

	"access-log-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaStatements(t *testing.T) {
	t.Run("Table Carries Record ID", func(t *testing.T) {
		sql := createTableSQL("access_log_events")
		assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS access_log_events")
		assert.Contains(t, sql, "record_id TEXT NOT NULL DEFAULT ''")
		assert.Contains(t, addRecordIDSQL("access_log_events"), "ADD COLUMN IF NOT EXISTS record_id")
	})

	t.Run("Event Key First And Includes Time", func(t *testing.T) {
		stmts := indexStatements("access_log_events")
		require.NotEmpty(t, stmts)
		assert.Equal(t,
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_access_log_events_event_key ON access_log_events (record_id, metric_name, time);",
			stmts[0])
	})

	t.Run("Query Filters Indexed", func(t *testing.T) {
		all := strings.Join(indexStatements("access_log_events"), "\n")
		assert.Contains(t, all, "ON access_log_events (metric_name, (tags->>'ip'), time DESC)")
		assert.Contains(t, all, "ON access_log_events (metric_name, (tags->>'status_class'), time DESC)")
		assert.Contains(t, all, "USING GIN (tags)")
	})
}

func TestMergeSQL(t *testing.T) {
	assert.Equal(t,
		"CREATE TEMP TABLE events_staging (LIKE events INCLUDING DEFAULTS) ON COMMIT DROP;",
		stagingTableSQL("events", "events_staging"))
	assert.Equal(t,
		"INSERT INTO events (time, metric_name, record_id, source, tags) SELECT time, metric_name, record_id, source, tags FROM events_staging ON CONFLICT DO NOTHING;",
		mergeSQL("events", "events_staging"))
}

func TestMetricRows(t *testing.T) {
	ts := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)
	rows := metricRows([]model.MetricEvent{
		{Time: ts, MetricName: model.MetricRequestEvent, RecordID: "rec-1", Source: "a.log", Tags: map[string]string{"ip": "1.2.3.4"}},
		{Time: ts, MetricName: model.MetricXSSEvent, RecordID: "rec-1", Source: "a.log"},
	})

	require.Len(t, rows, 2)
	require.Len(t, rows[0], len(eventColumns))
	assert.Equal(t, []interface{}{ts, "request_event", "rec-1", "a.log", []byte(`{"ip":"1.2.3.4"}`)}, rows[0])
	assert.Nil(t, rows[1][4])
}
