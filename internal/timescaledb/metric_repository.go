package timescaledb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"access-log-backend/internal/dto"
	"access-log-backend/internal/model"
	"access-log-backend/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Dimensions maps a groupBy/dimension name to the SQL expression it reads.
var Dimensions = map[string]string{
	"status":       "tags->>'status'",
	"status_class": "tags->>'status_class'",
	"country_code": "tags->>'country_code'",
	"ip":           "tags->>'ip'",
	"method":       "tags->>'method'",
	"action":       "tags->>'action'",
	"source":       colSource,
}

// Intervals are the time_bucket widths accepted by timeseries queries.
var Intervals = map[string]bool{
	"1 minute": true, "5 minute": true, "10 minute": true,
	"30 minute": true, "1 hour": true, "1 day": true,
}

const groupTotal = "total"

type timescaleMetricRepository struct {
	pool       *pgxpool.Pool
	eventTable string
}

func NewTimescaleMetricRepository(pool *pgxpool.Pool) (repository.MetricRepository, error) {
	if pool == nil {
		return nil, errors.New("TimescaleDB connection pool is required for MetricRepository")
	}
	return &timescaleMetricRepository{
		pool:       pool,
		eventTable: metricEventsTableName,
	}, nil
}

// queryArgs collects positional arguments and hands out their $n placeholders.
type queryArgs struct {
	values []interface{}
}

func (q *queryArgs) add(v interface{}) string {
	q.values = append(q.values, v)
	return fmt.Sprintf("$%d", len(q.values))
}

func (q *queryArgs) in(column string, values []string) string {
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = q.add(v)
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ","))
}

func timeAndSourceFilter(q *queryArgs, start, end time.Time, sources []string) []string {
	where := []string{
		fmt.Sprintf("%s >= %s", colTime, q.add(start)),
		fmt.Sprintf("%s < %s", colTime, q.add(end)),
	}
	if len(sources) > 0 {
		where = append(where, q.in(colSource, sources))
	}
	return where
}

func buildSummaryQuery(table string, req dto.MetricSummaryRequest) (string, []interface{}) {
	q := &queryArgs{}
	request := q.add(model.MetricRequestEvent)
	xssEvent := q.add(model.MetricXSSEvent)
	where := timeAndSourceFilter(q, req.StartTime, req.EndTime, req.Sources)

	sql := fmt.Sprintf(`SELECT
            COUNT(*) FILTER (WHERE metric_name = %[1]s),
            COUNT(*) FILTER (WHERE metric_name = %[1]s AND tags->>'status_class' IN ('4xx', '5xx')),
            COUNT(*) FILTER (WHERE metric_name = %[2]s),
            COUNT(DISTINCT tags->>'ip') FILTER (WHERE metric_name = %[1]s)
        FROM %[3]s WHERE %[4]s`, request, xssEvent, table, strings.Join(where, " AND "))
	return sql, q.values
}

func (r *timescaleMetricRepository) GetSummaryMetrics(ctx context.Context, req dto.MetricSummaryRequest) (*dto.MetricSummaryResponse, error) {
	sql, args := buildSummaryQuery(r.eventTable, req)

	resp := &dto.MetricSummaryResponse{}
	err := r.pool.QueryRow(ctx, sql, args...).Scan(&resp.TotalRequests, &resp.ErrorRequests, &resp.TotalXSSEvents, &resp.UniqueIPs)
	if err != nil {
		log.Error().Err(err).Str("query", sql).Msg("Failed to query summary metrics")
		return nil, fmt.Errorf("failed to get summary metrics: %w", err)
	}
	return resp, nil
}

func buildTimeseriesQuery(table string, req dto.MetricTimeseriesRequest) (string, []interface{}, error) {
	if !Intervals[req.Interval] {
		return "", nil, fmt.Errorf("invalid interval: %s", req.Interval)
	}
	groupSQL := "'" + groupTotal + "'"
	grouped := req.GroupBy != "" && req.GroupBy != groupTotal
	if grouped {
		var ok bool
		if groupSQL, ok = Dimensions[req.GroupBy]; !ok {
			return "", nil, fmt.Errorf("invalid groupBy: %s", req.GroupBy)
		}
	}

	q := &queryArgs{}
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT time_bucket(%s::interval, time) AS bucket, %s AS group_key, COUNT(*) AS value FROM %s WHERE ",
		q.add(req.Interval), groupSQL, table)
	where := append([]string{"metric_name = " + q.add(req.MetricName)},
		timeAndSourceFilter(q, req.StartTime, req.EndTime, req.Sources)...)
	b.WriteString(strings.Join(where, " AND "))

	b.WriteString(" GROUP BY bucket")
	if grouped {
		b.WriteString(", group_key")
	}

	orderBy := "bucket ASC"
	if req.Sort != nil {
		field := "bucket"
		switch {
		case req.Sort.Field == "value":
			field = "value"
		case req.Sort.Field == "time" || req.Sort.Field == "@timestamp":
		case grouped && req.Sort.Field == req.GroupBy:
			field = "group_key"
		default:
			log.Warn().Str("sort_field", req.Sort.Field).Msg("Unsupported sort field requested, defaulting to time bucket.")
		}
		dir := "ASC"
		if strings.EqualFold(req.Sort.Order, "desc") {
			dir = "DESC"
		}
		orderBy = fmt.Sprintf("%s %s, bucket ASC", field, dir)
	}
	b.WriteString(" ORDER BY " + orderBy)

	if req.Limit != nil && *req.Limit > 0 {
		b.WriteString(" LIMIT " + q.add(*req.Limit))
	}
	return b.String(), q.values, nil
}

func (r *timescaleMetricRepository) GetTimeseriesMetrics(ctx context.Context, req dto.MetricTimeseriesRequest) (*dto.MetricTimeseriesResponse, error) {
	sql, args, err := buildTimeseriesQuery(r.eventTable, req)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("query", sql).Interface("args", args).Msg("Executing TimescaleDB timeseries query")

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		log.Error().Err(err).Str("query", sql).Msg("Failed to execute timeseries query")
		return nil, fmt.Errorf("timeseries query failed: %w", err)
	}
	defer rows.Close()

	response := &dto.MetricTimeseriesResponse{Series: []dto.TimeseriesSeries{}}
	position := make(map[string]int)
	for rows.Next() {
		var bucket time.Time
		var groupKey *string
		var value int64
		if err := rows.Scan(&bucket, &groupKey, &value); err != nil {
			log.Error().Err(err).Msg("Failed to scan timeseries row")
			continue
		}

		key := model.Sentinel
		if groupKey != nil {
			key = *groupKey
		}
		i, ok := position[key]
		if !ok {
			i = len(response.Series)
			position[key] = i
			response.Series = append(response.Series, dto.TimeseriesSeries{Name: key, Data: []dto.TimeseriesDataPoint{}})
		}
		response.Series[i].Data = append(response.Series[i].Data, dto.TimeseriesDataPoint{
			Timestamp: bucket.UnixMilli(),
			Value:     value,
		})
	}
	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("Error iterating timeseries rows")
		return nil, fmt.Errorf("failed iterating query results: %w", err)
	}
	return response, nil
}

func buildDistributionQuery(table string, req dto.MetricDistributionRequest) (string, []interface{}, error) {
	column, ok := Dimensions[req.Dimension]
	if !ok {
		return "", nil, fmt.Errorf("unsupported dimension for distribution: %s", req.Dimension)
	}

	q := &queryArgs{}
	where := append([]string{"metric_name = " + q.add(req.MetricName)},
		timeAndSourceFilter(q, req.StartTime, req.EndTime, req.Sources)...)
	where = append(where, column+" IS NOT NULL")

	sql := fmt.Sprintf("SELECT %s AS dimension_key, COUNT(*) AS value FROM %s WHERE %s GROUP BY dimension_key ORDER BY value DESC",
		column, table, strings.Join(where, " AND "))
	if req.Limit > 0 {
		sql += " LIMIT " + q.add(req.Limit)
	}
	return sql, q.values, nil
}

func (r *timescaleMetricRepository) GetDistributionMetrics(ctx context.Context, req dto.MetricDistributionRequest) (*dto.MetricDistributionResponse, error) {
	sql, args, err := buildDistributionQuery(r.eventTable, req)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("query", sql).Interface("args", args).Msg("Executing TimescaleDB distribution query")

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to execute distribution query")
		return nil, fmt.Errorf("distribution query failed: %w", err)
	}
	defer rows.Close()

	distribution := make([]dto.DistributionDataPoint, 0)
	for rows.Next() {
		var point dto.DistributionDataPoint
		if err := rows.Scan(&point.Name, &point.Value); err != nil {
			log.Error().Err(err).Msg("Failed to scan distribution row")
			continue
		}
		distribution = append(distribution, point)
	}
	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("Error iterating distribution rows")
		return nil, fmt.Errorf("failed iterating distribution results: %w", err)
	}

	return &dto.MetricDistributionResponse{
		MetricName:   req.MetricName,
		Dimension:    req.Dimension,
		Distribution: distribution,
	}, nil
}

func (r *timescaleMetricRepository) GetDistinctSources(ctx context.Context, req dto.SourceListRequest) (*dto.SourceListResponse, error) {
	sql := fmt.Sprintf("SELECT DISTINCT %[1]s FROM %[2]s WHERE time >= $1 AND time < $2 ORDER BY %[1]s", colSource, r.eventTable)

	rows, err := r.pool.Query(ctx, sql, req.StartTime, req.EndTime)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query distinct sources")
		return nil, fmt.Errorf("failed getting sources: %w", err)
	}
	defer rows.Close()

	sources := make([]string, 0)
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			log.Error().Err(err).Msg("Failed to scan source row")
			continue
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("Error iterating source rows")
		return nil, fmt.Errorf("failed iterating source results: %w", err)
	}
	return &dto.SourceListResponse{Sources: sources}, nil
}
