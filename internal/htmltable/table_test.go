package htmltable

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"access-log-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countryPage = `<html><body>
<table class="nav"><tr><td>menu</td></tr></table>
<table class="wikitable sortable">
  <tr><th>Country</th><th>Alpha-2 code</th><th>Alpha-3 code</th><th>Notes</th></tr>
  <tr><td>Germany</td><td>DE</td><td>DEU</td><td></td></tr>
  <tr><td>France <sup>[a]</sup></td><td>FR</td><td>FRA</td><td></td></tr>
</table>
</body></html>`

func TestParse(t *testing.T) {
	frame, err := Parse(strings.NewReader(countryPage), map[string]string{"class": "wikitable"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Country", "Alpha-2 code", "Alpha-3 code", "Notes"}, frame.Columns)
	require.Len(t, frame.Rows, 2)
	assert.Equal(t, []string{"Germany", "DE", "DEU", ""}, frame.Rows[0])
	assert.Equal(t, "France [a]", frame.Rows[1][0])
}

func TestParse_NoAttrsTakesFirstTable(t *testing.T) {
	frame, err := Parse(strings.NewReader(countryPage), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"0"}, frame.Columns)
	assert.Equal(t, [][]string{{"menu"}}, frame.Rows)
}

func TestParse_Colspan(t *testing.T) {
	page := `<table><tr><th>a</th><th>b</th><th>c</th></tr><tr><td colspan="2">x</td><td>y</td></tr></table>`
	frame, err := Parse(strings.NewReader(page), nil)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "x", "y"}}, frame.Rows)
}

func TestParse_HeaderAfterEmptyRow(t *testing.T) {
	page := `<table><tr></tr><tr><th>Alpha-2 code</th><th>Alpha-3 code</th></tr><tr><td>FR</td><td>FRA</td></tr></table>`
	frame, err := Parse(strings.NewReader(page), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha-2 code", "Alpha-3 code"}, frame.Columns)
	assert.Equal(t, [][]string{{"FR", "FRA"}}, frame.Rows)
}

func TestParse_NotFound(t *testing.T) {
	_, err := Parse(strings.NewReader(countryPage), map[string]string{"id": "missing"})
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/one":
			_, _ = w.Write([]byte(countryPage))
		case "/two":
			_, _ = w.Write([]byte(`<table class="wikitable"><tr><th>Country</th><th>Alpha-2 code</th><th>Alpha-3 code</th><th>Notes</th></tr>
				<tr><td>Japan</td><td>JP</td><td>JPN</td><td></td></tr></table>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	opts := Options{Attrs: map[string]string{"class": "wikitable"}, DropEmptyColumns: true}

	t.Run("Concatenates Pages", func(t *testing.T) {
		frame, err := Fetch(context.Background(), srv.Client(), []string{srv.URL + "/one", srv.URL + "/two"}, opts)
		require.NoError(t, err)

		assert.Equal(t, []string{"Country", "Alpha-2 code", "Alpha-3 code"}, frame.Columns)
		require.Len(t, frame.Rows, 3)
		assert.Equal(t, []string{"Japan", "JP", "JPN"}, frame.Rows[2])
	})

	t.Run("Cleanup Runs Per Page", func(t *testing.T) {
		calls := 0
		withCleanup := opts
		withCleanup.Cleanup = func(f *model.Frame) (*model.Frame, error) {
			calls++
			f.Rows = f.Rows[:1]
			return f, nil
		}
		frame, err := Fetch(context.Background(), srv.Client(), []string{srv.URL + "/one", srv.URL + "/two"}, withCleanup)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Len(t, frame.Rows, 2)
	})

	t.Run("Cleanup Error", func(t *testing.T) {
		boom := errors.New("boom")
		withCleanup := opts
		withCleanup.Cleanup = func(*model.Frame) (*model.Frame, error) { return nil, boom }
		_, err := Fetch(context.Background(), srv.Client(), []string{srv.URL + "/one"}, withCleanup)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Bad Status", func(t *testing.T) {
		_, err := Fetch(context.Background(), srv.Client(), []string{srv.URL + "/missing"}, opts)
		assert.Error(t, err)
	})
}
