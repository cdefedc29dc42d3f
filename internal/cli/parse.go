package cli

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strings"

	"access-log-backend/config"
	"access-log-backend/internal/geo"
	"access-log-backend/internal/parser"
	"access-log-backend/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type parseOptions struct {
	columns   []string
	regex     bool
	geo       bool
	geoFields []string
}

func newParseCommand(cfg *config.Config) *cobra.Command {
	var opts parseOptions

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Parse an access log into CSV with an xss column and optional geolocation",
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
			return runParse(cmd, cfg, lines, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.columns, "columns", nil, "ten comma-separated column names replacing the defaults")
	cmd.Flags().BoolVar(&opts.regex, "regex", false, "use the strict regex parser instead of the positional one")
	cmd.Flags().BoolVar(&opts.geo, "geo", false, "append geolocation columns for each client IP")
	cmd.Flags().StringSliceVar(&opts.geoFields, "geo-fields", nil, "geolocation fields to append (default from GEO_FIELDS)")
	return cmd
}

func runParse(cmd *cobra.Command, cfg *config.Config, lines []string, opts parseOptions) error {
	mode := cfg.Parser.Mode
	if opts.regex {
		mode = parser.ModeRegex
	}

	records, lineErrors := service.ParseLines(parser.New(mode), lines)
	for _, le := range lineErrors {
		log.Warn().Int("line", le.Line).Msg(le.Message)
	}

	frame, err := service.BuildFrame(records, opts.columns)
	if err != nil {
		return err
	}

	if opts.geo {
		geoCfg := cfg.Geo
		geoCfg.Enabled = true
		enricher, err := geo.NewFromConfig(cmd.Context(), geoCfg, &http.Client{})
		if err != nil {
			return err
		}
		fields := opts.geoFields
		if len(fields) == 0 {
			fields = cfg.Geo.Fields
		}
		if err := service.AddGeoColumns(cmd.Context(), enricher, frame, records, fields); err != nil {
			return err
		}
	}

	log.Info().Int("lines", len(lines)).Int("records", len(records)).Int("skipped", len(lineErrors)).Msg("Parsed access log")
	return writeFrameCSV(cmd.OutOrStdout(), frame)
}

// readLines returns the non-blank lines of r with line endings removed.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}
