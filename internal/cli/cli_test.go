package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"access-log-backend/config"
	"access-log-backend/internal/service"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `127.0.0.1 - frank [10/Oct/2000:13:55:36 -0700] "GET /apache_pb.gif HTTP/1.0" 200 2326 "http://ref.com" "Mozilla/4.08"
not a log line

10.0.0.2 - - [17/Feb/2026:12:00:00 +0000] "GET /search?q=<script>alert(1)</script> HTTP/1.1" 200 12 "-" "curl/8.0"
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "access.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readCSV(t *testing.T, out string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestParseCommand(t *testing.T) {
	path := writeLog(t, sampleLog)

	out, err := execute(t, "parse", path)
	require.NoError(t, err)

	rows := readCSV(t, out)
	require.Len(t, rows, 3)
	assert.Equal(t, "ip", rows[0][0])
	assert.Equal(t, service.XSSColumn, rows[0][len(rows[0])-1])
	assert.Equal(t, "false", rows[1][len(rows[1])-1])
	assert.Equal(t, "true", rows[2][len(rows[2])-1])
}

func TestParseCommand_Geo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `callback({"country_code":"DE","latitude":52.5,"longitude":13.4})`)
	}))
	defer srv.Close()
	t.Setenv("GEO_LOOKUP_URL", srv.URL+"/")
	t.Setenv("GEO_COUNTRY_TABLE_URL", "")

	path := writeLog(t, sampleLog)
	out, err := execute(t, "parse", path, "--geo", "--geo-fields", "country_code,alpha_3")
	require.NoError(t, err)

	rows := readCSV(t, out)
	header := rows[0]
	assert.Equal(t, []string{"country_code", "alpha_3"}, header[len(header)-2:])
	assert.Equal(t, []string{"DE", "DEU"}, rows[1][len(rows[1])-2:])
}

func TestParseCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "parse", filepath.Join(t.TempDir(), "nope.log"))
	assert.Error(t, err)
}

func TestXSSCommand(t *testing.T) {
	out, err := execute(t, "xss", "/index.html", "/?q=<img src=x onerror=alert(1)>")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "false\t"))
	assert.True(t, strings.HasPrefix(lines[1], "true\t"))
}

func TestTablesCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<table class="other"><tr><td>skip</td></tr></table>
<table class="wikitable sortable">
<tr><th>Code</th><th>Empty</th><th>Name</th></tr>
<tr><td>DE</td><td></td><td>Germany</td></tr>
</table>`)
	}))
	defer srv.Close()

	out, err := execute(t, "tables", srv.URL, "--attr", "class=wikitable", "--drop-empty")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Code", "Name"}, {"DE", "Germany"}}, readCSV(t, out))
}

type recordingTransport struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingTransport) Perform(req *http.Request) (*http.Response, error) {
	r.mu.Lock()
	r.paths = append(r.paths, req.URL.Path)
	r.mu.Unlock()
	return &http.Response{
		StatusCode: http.StatusCreated,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"result":"created"}`)),
	}, nil
}

func TestRunIndex(t *testing.T) {
	cfg := &config.Config{
		Elasticsearch: config.ElasticsearchConfig{LogIndex: "accesslogs"},
		Parser:        config.ParserConfig{Mode: "positional"},
	}
	lines, err := readLines(strings.NewReader(sampleLog))
	require.NoError(t, err)
	require.Len(t, lines, 3)

	tr := &recordingTransport{}
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	out := &bytes.Buffer{}
	cmd.SetOut(out)

	err = runIndex(cmd, tr, cfg, service.NewRecordEnricher(nil), "/var/log/access.log", lines, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/accesslogs-2000-10-10/_doc/" + FileRecordID("access.log", 1),
		"/accesslogs-2026-02-17/_doc/" + FileRecordID("access.log", 3),
	}, tr.paths)
	assert.Contains(t, out.String(), "indexed 2 of 3 lines")
}

func TestFileRecordID(t *testing.T) {
	assert.Equal(t, FileRecordID("a.log", 1), FileRecordID("a.log", 1))
	assert.NotEqual(t, FileRecordID("a.log", 1), FileRecordID("a.log", 2))
	assert.NotEqual(t, FileRecordID("a.log", 1), FileRecordID("b.log", 1))
}
