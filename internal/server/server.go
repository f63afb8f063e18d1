package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/xpanvictor/voxrelay/pkg/Logger"
)

// Run serves handler on addr until ctx is canceled, then drains in-flight
// requests for up to shutdownTimeout.
func Run(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration, logger *Logger.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return Serve(ctx, ln, handler, shutdownTimeout, logger)
}

func Serve(ctx context.Context, ln net.Listener, handler http.Handler, shutdownTimeout time.Duration, logger *Logger.Logger) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Errorf("shutdown: %v", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
