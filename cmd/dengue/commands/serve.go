package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/denguelab/go-sarima/internal/metrics"
	"github.com/denguelab/go-sarima/internal/server"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd starts the http api and stops it gracefully on SIGINT or SIGTERM
func NewServeCmd(g *GlobalOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis api over http",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				g.cfg.Server.Port = port
				if err := g.cfg.Server.Validate(); err != nil {
					return err
				}
			}
			return runServe(g)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides the configured port)")

	return cmd
}

func runServe(g *GlobalOptions) error {
	logger := g.logger

	m, err := metrics.New(metrics.DefaultNamespace)
	if err != nil {
		return err
	}
	srv := server.New(g.cfg, logger, m)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutting down server...", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		return err
	}
	logger.Info("Server exited")
	return nil
}
