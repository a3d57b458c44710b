package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hyamamo/issue-trends/internal/config"
	"github.com/hyamamo/issue-trends/internal/gateway"
	"github.com/hyamamo/issue-trends/internal/logging"
	httptransport "github.com/hyamamo/issue-trends/internal/transport/http"
	"github.com/hyamamo/issue-trends/internal/transport/http/middleware"
	"github.com/hyamamo/issue-trends/internal/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the issue analysis HTTP API",
	Long:  `Starts an HTTP server exposing POST /api/v1/github-issues, which analyzes the requested repositories and returns their weekly issue timelines.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := logging.NewLogger(logging.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: os.Stdout,
		})
		if verbose, _ := cmd.InheritedFlags().GetBool("verbose"); verbose {
			logger = logging.NewLogger(logging.Config{Level: "debug", Format: cfg.Logging.Format, Output: os.Stdout})
		}

		githubGateway, err := gateway.NewGitHubGateway(logger)
		if err != nil {
			return err
		}
		analyzer := usecase.NewAnalyzer(githubGateway, logger, cfg.Analysis.RepoTimeout, cfg.Analysis.DefaultMonths)

		var limiter *middleware.RateLimiter
		if cfg.RateLimit.Enabled {
			limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
			defer limiter.Close()
		}

		handler := httptransport.NewHandler(analyzer, logger, cfg.Analysis.DataFile)
		router := httptransport.NewRouter(handler, logger, limiter)

		server := &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server running", "port", cfg.Server.Port)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			logger.Info("shutting down", "signal", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			return err
		}
		logger.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
