package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/cache"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/config"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/database"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/notify"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/repository"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/service"
)

// app holds the layers shared by every subcommand.
type app struct {
	pool          *pgxpool.Pool
	events        *repository.EventRepository
	eventSvc      *service.EventService
	registrations *service.RegistrationService
}

// openApp connects to PostgreSQL, migrates when configured, and wires the
// repositories into the services.
func openApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	pool, err := database.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if _, err := database.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
	}

	notifier, err := buildNotifier(cfg.SMTP, log)
	if err != nil {
		pool.Close()
		return nil, err
	}

	eventRepo := repository.NewEventRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	topicRepo := repository.NewTopicRepository(pool)
	regRepo := repository.NewRegistrationRepository(pool)

	return &app{
		pool:          pool,
		events:        eventRepo,
		eventSvc:      service.NewEventService(eventRepo, slotRepo, topicRepo, regRepo),
		registrations: service.NewRegistrationService(eventRepo, slotRepo, regRepo, notifier, cfg.SMTP.Timeout, log),
	}, nil
}

// Close waits for pending summary emails, then releases the pool.
func (a *app) Close() {
	a.registrations.Wait()
	a.pool.Close()
}

func buildNotifier(cfg config.SMTPConfig, log *zap.Logger) (notify.Notifier, error) {
	if !cfg.Enabled() {
		log.Info("smtp not configured, summaries will be logged")
		return notify.NewLogNotifier(log), nil
	}
	n, err := notify.NewSMTPNotifier(cfg, log)
	if err != nil {
		return nil, err
	}
	log.Info("smtp notifier ready", zap.String("host", cfg.Host), zap.Int("port", cfg.Port))
	return n, nil
}

// buildCache returns nil when caching is disabled.
func buildCache(ctx context.Context, cfg config.CacheConfig, log *zap.Logger) (cache.Store, error) {
	if !cfg.Enabled() {
		log.Info("response cache disabled")
		return nil, nil
	}
	if cfg.RedisAddr == "" {
		log.Info("response cache in memory", zap.Duration("ttl", cfg.TTL))
		return cache.NewMemoryStore(cfg.TTL), nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	store, err := cache.NewRedisStore(pingCtx, cfg.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	log.Info("response cache in redis", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.TTL))
	return store, nil
}
