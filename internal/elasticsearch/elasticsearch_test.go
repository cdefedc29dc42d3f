package elasticsearch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"access-log-backend/internal/dto"
	"access-log-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	status int
	req    *http.Request
	body   string
}

func (f *fakeTransport) Perform(req *http.Request) (*http.Response, error) {
	f.req = req
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		f.body = string(data)
	}
	return &http.Response{
		StatusCode: f.status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"result":"created"}`)),
	}, nil
}

func TestIndexName(t *testing.T) {
	ts := time.Date(2026, 2, 17, 23, 30, 0, 0, time.FixedZone("x", -2*3600))
	assert.Equal(t, "accesslogs-2026-02-18", IndexName("accesslogs", ts))
}

func TestIndexRecord(t *testing.T) {
	rec := model.EnrichedRecord{
		ID:        "abc",
		Timestamp: time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC),
		IP:        "1.2.3.4",
	}

	t.Run("Created", func(t *testing.T) {
		tr := &fakeTransport{status: http.StatusCreated}
		require.NoError(t, IndexRecord(context.Background(), tr, "accesslogs", rec, true))
		assert.Equal(t, http.MethodPut, tr.req.Method)
		assert.Equal(t, "/accesslogs-2026-02-17/_doc/abc", tr.req.URL.Path)
		assert.Equal(t, "true", tr.req.URL.Query().Get("refresh"))
		assert.Contains(t, tr.body, `"ip":"1.2.3.4"`)
	})

	t.Run("Rejected", func(t *testing.T) {
		tr := &fakeTransport{status: http.StatusBadRequest}
		assert.Error(t, IndexRecord(context.Background(), tr, "accesslogs", rec, false))
	})
}

func TestBuildSearchRequest(t *testing.T) {
	req := dto.LogSearchRequest{
		StartTime: time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 2, 18, 0, 0, 0, 0, time.UTC),
		Query:     "login",
		IPs:       []string{"1.2.3.4"},
		Countries: []string{"DE", "FR"},
		XSSOnly:   true,
		SortBy:    "ip",
		SortOrder: "asc",
		Page:      3,
		Size:      50,
	}

	sr := buildSearchRequest(req)
	require.NotNil(t, sr.Query.Bool)

	filters := sr.Query.Bool.Filter
	require.Len(t, filters, 5) // range, query string, ips, countries, xss flag
	assert.Contains(t, filters[2].Terms.TermsQuery, "ip.keyword")
	assert.Len(t, filters[3].Terms.TermsQuery["country_code.keyword"], 2)
	assert.Equal(t, true, filters[4].Term["xss_suspect"].Value)

	assert.Equal(t, 100, *sr.From)
	assert.Equal(t, 50, *sr.Size)
	require.Len(t, sr.Sort, 1)
}

func TestSortField(t *testing.T) {
	assert.Equal(t, "@timestamp", sortField(""))
	assert.Equal(t, "status.keyword", sortField("status"))
	assert.Equal(t, "@timestamp", sortField("raw_log"))
}
