package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-files/pkg/simplefiles"
	"github.com/tendant/simple-files/pkg/simplefiles/api"
	"github.com/tendant/simple-files/pkg/simplefiles/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg := prometheus.DefaultRegisterer
		svc, cleanup, err := cfg.BuildService(ctx, logger,
			simplefiles.WithEventSink(metrics.NewEventSink(reg)))
		if err != nil {
			return err
		}
		defer cleanup()

		location := svc.Location()
		logger.Info("Service configured",
			"storage_driver", cfg.StorageDriver,
			"bucket", location.Bucket,
			"folder", location.Folder,
			"memory_db", cfg.UseMemoryDatabase())

		server := &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.Port),
			Handler:           newRouter(svc, logger, reg, promhttp.Handler(), cfg.MaxUploadBytes),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Server starting", "port", cfg.Port)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
		}

		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		logger.Info("Server exiting")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newRouter wires middleware, operational routes and the /file handlers.
func newRouter(svc simplefiles.Service, logger *slog.Logger, reg prometheus.Registerer, metricsHandler http.Handler, maxUploadBytes int64) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.NewHTTP(reg).Middleware)

	app.RoutesHealthz(r)
	app.RoutesHealthzReady(r)
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/file/list", http.StatusFound)
	})
	r.Mount("/file", api.NewFilesHandler(svc, logger, maxUploadBytes).Routes())

	return r
}
