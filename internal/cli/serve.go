package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpapi "learnrag/internal/http"
	"learnrag/internal/usecase"
)

var (
	servePreload []string
	servePort    int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the learnrag HTTP API. Documents live in memory for the lifetime of
the process; use --preload to ingest files or directories at startup.

Examples:
  learnrag serve
  learnrag serve --port 8080 --preload ./curriculum`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringSliceVar(&servePreload, "preload", nil, "files or directories to ingest at startup")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from config or PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	log := GetLogger()

	engine := usecase.NewEngineFromConfig(cfg, log)

	if len(servePreload) > 0 {
		result, err := ingestPaths(engine, servePreload)
		if err != nil {
			return err
		}
		printIngestSummary(result)
	}

	port := cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}

	server, err := httpapi.NewServer(engine, log, &httpapi.Config{
		Host:           cfg.Server.Host,
		Port:           port,
		MaxUploadBytes: cfg.Ingest.MaxFileBytes,
		RateLimit:      cfg.Server.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
