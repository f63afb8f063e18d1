// Package cli is the voxrelay command line: the HTTP server plus one-shot
// maintenance commands sharing the same dependency graph.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/xpanvictor/voxrelay/internal/app"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd(appOpts ...app.Option) *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "voxrelay",
		Short:         "Voice relay: speech in, synthesized answer out",
		Long:          "voxrelay turns one recorded utterance per request into a spoken reply, keeping a bounded conversation and a reply cache per device session.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default config_<env>.yaml in . or ./config)")
	pf.StringVar(&flags.env, "env", "", "environment name used to pick the config file")
	pf.BoolVar(&flags.debug, "debug", false, "debug logging")

	w := &wiring{flags: flags, appOpts: appOpts}
	rootCmd.AddCommand(
		newServeCmd(w),
		newProcessCmd(w),
		newPurgeCmd(w),
		newMigrateCmd(w),
		newVersionCmd(),
	)

	return rootCmd
}
