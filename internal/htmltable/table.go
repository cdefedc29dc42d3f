// Package htmltable reads the first matching <table> of web pages into frames.
package htmltable

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"access-log-backend/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrTableNotFound = errors.New("no matching table")

// Options controls which table is read and how it is post-processed.
type Options struct {
	// Attrs selects the first table carrying all of these attributes. A "class" entry
	// matches when the value is one of the table's classes.
	Attrs map[string]string
	// DropEmptyColumns removes columns in which every cell is empty.
	DropEmptyColumns bool
	// Cleanup runs on each page's frame before concatenation.
	Cleanup func(*model.Frame) (*model.Frame, error)
}

// Fetch downloads every URL in order and concatenates the tables found there.
func Fetch(ctx context.Context, client *http.Client, urls []string, opts Options) (*model.Frame, error) {
	if client == nil {
		client = http.DefaultClient
	}
	result := &model.Frame{}
	for _, u := range urls {
		frame, err := fetchOne(ctx, client, u, opts)
		if err != nil {
			return nil, fmt.Errorf("table from %s: %w", u, err)
		}
		result.Append(frame)
		log.Debug().Str("url", u).Int("rows", len(frame.Rows)).Int("columns", len(frame.Columns)).Msg("Fetched HTML table")
	}
	return result, nil
}

func fetchOne(ctx context.Context, client *http.Client, u string, opts Options) (*model.Frame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", res.Status)
	}

	frame, err := Parse(res.Body, opts.Attrs)
	if err != nil {
		return nil, err
	}
	if opts.DropEmptyColumns {
		frame = dropEmptyColumns(frame)
	}
	if opts.Cleanup != nil {
		if frame, err = opts.Cleanup(frame); err != nil {
			return nil, fmt.Errorf("cleanup: %w", err)
		}
	}
	return frame, nil
}

// Parse reads the first table of an HTML document that matches attrs. A leading row made
// only of <th> cells becomes the header; otherwise columns are numbered from 0.
func Parse(r io.Reader, attrs map[string]string) (*model.Frame, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	table := findTable(doc, attrs)
	if table == nil {
		return nil, ErrTableNotFound
	}

	var rows [][]string
	header := -1
	for _, tr := range collectRows(table) {
		cells, allHeader := rowCells(tr)
		if len(cells) == 0 {
			continue
		}
		if len(rows) == 0 && allHeader {
			header = len(rows)
		}
		rows = append(rows, cells)
	}

	frame := &model.Frame{}
	if header == 0 {
		frame.Columns = rows[0]
		rows = rows[1:]
	}
	width := len(frame.Columns)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for len(frame.Columns) < width {
		frame.Columns = append(frame.Columns, strconv.Itoa(len(frame.Columns)))
	}
	frame.Rows = make([][]string, 0, len(rows))
	for _, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		frame.Rows = append(frame.Rows, padded)
	}
	return frame, nil
}

func findTable(n *html.Node, attrs map[string]string) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Table && matchesAttrs(n, attrs) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTable(c, attrs); found != nil {
			return found
		}
	}
	return nil
}

func matchesAttrs(n *html.Node, attrs map[string]string) bool {
	for key, want := range attrs {
		got, ok := attr(n, key)
		if !ok {
			return false
		}
		if key == "class" {
			if !containsField(got, want) {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

func containsField(list, want string) bool {
	for _, f := range strings.Fields(list) {
		if f == want {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// collectRows returns the rows of table without descending into nested tables.
func collectRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				rows = append(rows, c)
			case atom.Table:
			default:
				walk(c)
			}
		}
	}
	walk(table)
	return rows
}

func rowCells(tr *html.Node) ([]string, bool) {
	var cells []string
	allHeader := true
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		if c.DataAtom == atom.Td {
			allHeader = false
		}
		text := nodeText(c)
		span := 1
		if v, ok := attr(c, "colspan"); ok {
			if n, err := strconv.Atoi(v); err == nil && n > 1 {
				span = n
			}
		}
		for i := 0; i < span; i++ {
			cells = append(cells, text)
		}
	}
	return cells, allHeader && len(cells) > 0
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func dropEmptyColumns(f *model.Frame) *model.Frame {
	keep := make([]int, 0, len(f.Columns))
	for j := range f.Columns {
		for _, row := range f.Rows {
			if j < len(row) && row[j] != "" {
				keep = append(keep, j)
				break
			}
		}
	}
	out := &model.Frame{Columns: make([]string, 0, len(keep)), Rows: make([][]string, 0, len(f.Rows))}
	for _, j := range keep {
		out.Columns = append(out.Columns, f.Columns[j])
	}
	for _, row := range f.Rows {
		r := make([]string, 0, len(keep))
		for _, j := range keep {
			r = append(r, row[j])
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}
