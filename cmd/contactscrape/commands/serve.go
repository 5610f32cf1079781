package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/contactscrape/internal/logger"
	"github.com/jmylchreest/contactscrape/internal/server"
	"github.com/jmylchreest/contactscrape/internal/version"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the contact extraction HTTP API",
	Long: `Start an HTTP server exposing:

  POST /api/scraper     {"url": "..."}  full contact record
  POST /api/find_email  {"url": "..."}  emails only
  GET  /health`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	defaults := server.DefaultConfig()
	flags := serveCmd.Flags()
	flags.String("addr", ":3000", "listen address")
	flags.String("max-body-size", defaults.MaxBodySize, "maximum request body size (e.g. 64KB, 1MiB)")
	flags.Duration("request-timeout", defaults.RequestTimeout, "time limit for one API request")
	addScrapeFlags(serveCmd)

	_ = viper.BindPFlag("addr", flags.Lookup("addr"))
	_ = viper.BindPFlag("max_body_size", flags.Lookup("max-body-size"))
	_ = viper.BindPFlag("request_timeout", flags.Lookup("request-timeout"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	settings, err := loadScrapeSettings(cmd)
	if err != nil {
		return err
	}

	s, err := newScraper(settings)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return err
	}
	defer func() { _ = s.Close() }()

	handler, err := server.New(s, server.Config{
		MaxBodySize:    viper.GetString("max_body_size"),
		RequestTimeout: viper.GetDuration("request_timeout"),
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              viper.GetString("addr"),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"addr", httpServer.Addr,
			"fetch_mode", settings.FetchMode,
			"version", version.Short())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return err
	}
	return nil
}
