package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"access-log-backend/internal/model"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// IndexRecord writes one record synchronously. It backs the offline index command where
// a bulk indexer and its background workers are not worth starting.
func IndexRecord(ctx context.Context, transport esapi.Transport, prefix string, rec model.EnrichedRecord, refresh bool) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", rec.ID, err)
	}
	req := esapi.IndexRequest{
		Index:      IndexName(prefix, rec.Timestamp),
		DocumentID: rec.ID,
		Body:       bytes.NewReader(body),
	}
	if refresh {
		req.Refresh = "true"
	}

	res, err := req.Do(ctx, transport)
	if err != nil {
		return fmt.Errorf("index record %s: %w", rec.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index record %s: %s", rec.ID, res.String())
	}
	return nil
}
