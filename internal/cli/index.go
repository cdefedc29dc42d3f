package cli

import (
	"fmt"
	"net/http"
	"path/filepath"

	"access-log-backend/config"
	"access-log-backend/internal/elasticsearch"
	"access-log-backend/internal/geo"
	"access-log-backend/internal/model"
	"access-log-backend/internal/parser"
	"access-log-backend/internal/service"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newIndexCommand(cfg *config.Config) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "index <file>",
		Short: "Parse, enrich and index an access log file directly into Elasticsearch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()
			lines, err := readLines(in)
			if err != nil {
				return err
			}

			enricher, err := geo.NewFromConfig(cmd.Context(), cfg.Geo, &http.Client{})
			if err != nil {
				return err
			}
			client, err := elasticsearch.Connect(cfg)
			if err != nil {
				return err
			}
			return runIndex(cmd, client, cfg, service.NewRecordEnricher(enricher), args[0], lines, refresh)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "refresh the index after each document")
	return cmd
}

func runIndex(cmd *cobra.Command, transport esapi.Transport, cfg *config.Config, enricher service.RecordEnricher, path string, lines []string, refresh bool) error {
	p := parser.New(cfg.Parser.Mode)
	source := filepath.Base(path)

	shipped := make([]model.ShippedRecord, 0, len(lines))
	for i, line := range lines {
		rec, err := p.Parse(line)
		if err != nil {
			log.Warn().Err(err).Int("line", i+1).Msg("Skipping unparsable line")
			continue
		}
		shipped = append(shipped, model.ShippedRecord{
			ID:         FileRecordID(source, i+1),
			Record:     rec,
			SourceFile: source,
			Raw:        line,
		})
	}

	indexed := 0
	for _, rec := range enricher.EnrichBatch(cmd.Context(), shipped) {
		if err := elasticsearch.IndexRecord(cmd.Context(), transport, cfg.Elasticsearch.LogIndex, rec, refresh); err != nil {
			log.Error().Err(err).Str("id", rec.ID).Msg("Failed to index record")
			continue
		}
		indexed++
	}

	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d of %d lines from %s\n", indexed, len(lines), source)
	if indexed < len(shipped) {
		return fmt.Errorf("%d records failed to index", len(shipped)-indexed)
	}
	return nil
}

// FileRecordID keys a record by file and line so re-indexing a file overwrites its
// earlier documents.
func FileRecordID(source string, line int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("file:%s:%d", source, line))).String()
}
