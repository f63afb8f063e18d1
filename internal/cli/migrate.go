package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xpanvictor/voxrelay/internal/database"
)

func newMigrateCmd(w *wiring) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the relational schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := w.settings()
			if err != nil {
				return err
			}
			db, err := database.InitDB(cfg.DB, cfg.Debug)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			if err := database.MigrateDB(db); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables\n", len(database.Models()))
			return err
		},
	}
}
