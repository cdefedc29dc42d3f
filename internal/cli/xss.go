package cli

import (
	"fmt"

	"access-log-backend/internal/xss"

	"github.com/spf13/cobra"
)

func newXSSCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "xss <value>...",
		Short: "Report whether each value contains an XSS marker",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, v := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%t\t%s\n", xss.LooksLikeXSS(v), v)
			}
			return nil
		},
	}
}
