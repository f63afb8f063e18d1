package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xpanvictor/voxrelay/internal/database"
	"github.com/xpanvictor/voxrelay/internal/server"
)

func newServeCmd(w *wiring) *cobra.Command {
	var (
		addr    string
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := w.app(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					a.Logger.Errorf("closing app: %v", err)
				}
			}()

			if migrate && a.DB != nil {
				if err := database.MigrateDB(a.DB); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}

			wctx, cancel := context.WithTimeout(ctx, a.Config.Pipeline.FallbackTimeout)
			_ = a.Orchestrator.Warmup(wctx)
			cancel()

			router, ws := server.NewRouter(server.NewServerDependencies(a))
			defer ws.Close()

			if addr == "" {
				addr = a.Config.Server.Addr
			}
			return server.Run(ctx, addr, router, a.Config.Server.ShutdownTimeout, a.Logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply the schema before serving when a gorm backend is configured")
	return cmd
}
