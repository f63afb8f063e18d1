package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPurgeCmd(w *wiring) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <session-key>",
		Short: "Delete a session's history and cached replies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := w.app(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Sessions.Purge(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "purged %s: history=%d cache=%d\n",
				res.SessionKey, res.HistoryDeleted, res.CacheDeleted)
			return err
		},
	}
}
