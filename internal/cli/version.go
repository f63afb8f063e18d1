package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xpanvictor/voxrelay/internal/server"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), server.Version)
			return err
		},
	}
}
