package cli

import (
	"net/http"
	"time"

	"access-log-backend/internal/htmltable"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newTablesCommand() *cobra.Command {
	var (
		attrs     map[string]string
		dropEmpty bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "tables <url>...",
		Short: "Read the first matching HTML table of each page and print them as one CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: timeout}
			frame, err := htmltable.Fetch(cmd.Context(), client, args, htmltable.Options{
				Attrs:            attrs,
				DropEmptyColumns: dropEmpty,
			})
			if err != nil {
				return err
			}
			log.Info().Int("pages", len(args)).Int("rows", len(frame.Rows)).Msg("Fetched tables")
			return writeFrameCSV(cmd.OutOrStdout(), frame)
		},
	}

	cmd.Flags().StringToStringVar(&attrs, "attr", nil, "table attribute to match, e.g. --attr class=wikitable")
	cmd.Flags().BoolVar(&dropEmpty, "drop-empty", false, "drop columns whose cells are all empty")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout")
	return cmd
}
