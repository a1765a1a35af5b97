package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/secondbrain/internal/httpapi"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr, mode string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		Long:  "Serve the JSON HTTP API on the configured address until interrupted.\n--addr and --mode override server.address/server.port and server.mode.",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr()
			}
			if mode == "" {
				mode = cfg.Server.Mode
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, cmd, ln, mode)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address host:port")
	cmd.Flags().StringVar(&mode, "mode", "", "gin mode (debug, release, test)")
	return cmd
}

// serve runs the API on ln until ctx is done, then shuts down gracefully.
func (a *app) serve(ctx context.Context, cmd *cobra.Command, ln net.Listener, mode string) error {
	svc, err := a.service(cmd)
	if err != nil {
		ln.Close()
		return err
	}
	logger := log.New(cmd.ErrOrStderr(), a.cfg.Log.Prefix, log.LstdFlags)

	server := &http.Server{
		Handler:           httpapi.NewServer(svc, logger, mode).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s", ln.Addr())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Printf("server stopped")
	return nil
}
