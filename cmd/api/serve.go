package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"om-api/internal/delivery/http/handler"
	"om-api/internal/delivery/http/router"

	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background ingestion workers",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort > 0 {
		cfg.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApplication(ctx, cfg, appLog)
	if err != nil {
		return err
	}
	a.pool.Start()

	app := router.New(
		router.Options{
			BodyLimit:        cfg.MaxUploadBytes,
			CORSAllowOrigins: cfg.CORSAllowOrigins,
		},
		handler.NewDocumentHandler(a.documents, appLog),
		handler.NewHealthHandler(a.db),
		appLog,
	)

	errCh := make(chan error, 1)
	go func() {
		addr := net.JoinHostPort("", fmt.Sprint(cfg.Port))
		appLog.Info().
			Str("addr", addr).
			Str("provider", cfg.LLMProvider).
			Msg("Server starting")
		errCh <- app.Listen(addr)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		appLog.Info().Msg("Shutdown signal received")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLog.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	a.close(shutdownCtx, appLog)

	if serveErr != nil && !errors.Is(serveErr, net.ErrClosed) {
		return fmt.Errorf("server failed: %w", serveErr)
	}
	appLog.Info().Msg("Server stopped")
	return nil
}
