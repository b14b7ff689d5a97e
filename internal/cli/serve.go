package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/auth"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/handler"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/links"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/metrics"
)

var servePort string

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Start the JSON API, the /health and /metrics endpoints, and (when
STATIC_DIR is set) the frontend. SIGINT or SIGTERM triggers a graceful
shutdown that also waits for queued summary emails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Listen port; overrides PORT")
}

func runServe(cmd *cobra.Command) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := buildCache(ctx, cfg.Cache, log)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	var limiter *handler.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = handler.NewRateLimiter(handler.LimiterConfig{
			RPS:     cfg.RateLimit.RPS,
			Burst:   cfg.RateLimit.Burst,
			IdleTTL: cfg.RateLimit.IdleTTL,
		})
		defer limiter.Stop()
	}

	if cfg.Admin.Enforce && cfg.Admin.JWTSecret == "change-me" {
		log.Warn("ADMIN_ENFORCE is set but ADMIN_JWT_SECRET still has its default value")
	}
	metrics.Register(prometheus.DefaultRegisterer)

	router := handler.NewRouter(handler.Deps{
		Events:        a.eventSvc,
		Registrations: a.registrations,
		Admin:         auth.NewAdmin(cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.JWTSecret, cfg.Admin.TokenTTL),
		EnforceAdmin:  cfg.Admin.Enforce,
		Links:         links.NewBuilder(cfg.Server.PublicURL),
		Log:           log,
		Cache:         store,
		CacheTTL:      cfg.Cache.TTL,
		Limiter:       limiter,
		DB:            a.pool,
		CORSOrigin:    cfg.Server.CORSOrigin,
		StaticDir:     cfg.Server.StaticDir,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("public_url", cfg.Server.PublicURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	log.Info("server stopped")
	return err
}
