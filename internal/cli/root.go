// Package cli holds the offline commands of the access log tool: parsing files into
// tables, checking values for XSS markers, scraping HTML tables and indexing files
// straight into Elasticsearch.
package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"access-log-backend/config"
	"access-log-backend/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree. Configuration is loaded from .env and the
// environment before any subcommand runs.
func NewRootCommand() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:           "accesslog",
		Short:         "Parse, inspect and index web server access logs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
			loaded, err := config.NewConfig()
			if err != nil {
				return err
			}
			cfg = *loaded
			return nil
		},
	}

	root.AddCommand(
		newParseCommand(&cfg),
		newXSSCommand(),
		newTablesCommand(),
		newIndexCommand(&cfg),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeFrameCSV(w io.Writer, frame *model.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(frame.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(frame.Rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
