package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"droneregistry/internal/auth/revocation"
	"droneregistry/internal/auth/token"
	"droneregistry/internal/platform/config"
	"droneregistry/internal/platform/database"
	"droneregistry/internal/platform/logger"
	"droneregistry/internal/platform/redis"
	"droneregistry/internal/ratelimit/authlockout"
	"droneregistry/internal/registry/metrics"
	"droneregistry/internal/registry/service"
	regmemory "droneregistry/internal/registry/store/memory"
	"droneregistry/internal/registry/store/sqlstore"
	audit "droneregistry/pkg/platform/audit"
	"droneregistry/pkg/platform/audit/outbox"
	"droneregistry/pkg/platform/audit/publishers/kafka"
	"droneregistry/pkg/platform/audit/publishers/logsink"
	"droneregistry/pkg/platform/audit/publishers/nats"
	"droneregistry/pkg/platform/audit/store/bunstore"
	auditmemory "droneregistry/pkg/platform/audit/store/memory"
)

type revocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// app holds the long-lived dependencies shared by every subcommand.
type app struct {
	cfg    config.Config
	logger *slog.Logger

	db       *bun.DB
	sqlStore *sqlstore.Store
	outbox   *bunstore.Store

	store       service.Store
	auditStore  audit.Store
	redisClient *redis.Client
}

func loadApp(ctx context.Context, cmd *cobra.Command, configFile string) (*app, error) {
	cfg, err := config.Load(cmd, configFile)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger.New(cfg.LogLevel)}
	slog.SetDefault(a.logger)

	if cfg.Database.Driver == "memory" {
		a.store = regmemory.New()
		a.auditStore = auditmemory.NewInMemoryStore()
		return a, nil
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.sqlStore = sqlstore.New(db)
	a.outbox = bunstore.New(db)
	a.store = a.sqlStore
	a.auditStore = a.outbox
	if cfg.Database.AutoMigrate {
		if err := a.migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) migrate(ctx context.Context) error {
	if a.db == nil {
		return errors.New("migrate requires a sql database driver")
	}
	if err := a.sqlStore.CreateSchema(ctx); err != nil {
		return fmt.Errorf("create registry schema: %w", err)
	}
	if err := a.outbox.CreateSchema(ctx); err != nil {
		return fmt.Errorf("create outbox schema: %w", err)
	}
	a.logger.InfoContext(ctx, "schema up to date", "driver", a.cfg.Database.Driver)
	return nil
}

func (a *app) service(m *metrics.Metrics, outboxMetrics *outbox.Metrics) *service.Service {
	emitter := outbox.New(a.auditStore,
		outbox.WithLogger(a.logger),
		outbox.WithMetrics(outboxMetrics),
	)
	return service.New(a.store,
		service.WithLogger(a.logger),
		service.WithAuditPublisher(emitter),
		service.WithMetrics(m),
	)
}

func (a *app) tokens() *token.Service {
	return token.New(a.cfg.Auth.SigningKey, a.cfg.Auth.Issuer, a.cfg.Auth.Audience)
}

// publisher picks the broker the relay delivers committed audit events to.
func (a *app) publisher(ctx context.Context) (audit.Publisher, error) {
	ev := a.cfg.Events
	switch ev.Broker {
	case config.BrokerKafka:
		return kafka.New(ctx, kafka.Config{
			Brokers:           ev.KafkaBrokers,
			Topic:             ev.Topic,
			Partitions:        1,
			ReplicationFactor: 1,
		})
	case config.BrokerNATS:
		return nats.New(ev.NATSURL, ev.SubjectPrefix)
	default:
		return logsink.New(a.logger), nil
	}
}

func (a *app) connectRedis(ctx context.Context) error {
	client, err := redis.New(ctx, a.cfg.Redis)
	if err != nil {
		return err
	}
	a.redisClient = client
	return nil
}

func (a *app) revocations() revocationList {
	if a.redisClient != nil {
		return revocation.NewRedis(a.redisClient.Client)
	}
	return revocation.NewInMemory()
}

func (a *app) loginLimiter() (*authlockout.Service, error) {
	var store authlockout.Store = authlockout.NewInMemoryStore()
	if a.redisClient != nil {
		store = authlockout.NewRedisStore(a.redisClient.Client)
	}
	return authlockout.New(store,
		authlockout.WithLimits(a.cfg.Auth.LoginAttempts, a.cfg.Auth.LoginWindow, a.cfg.Auth.LoginLockout),
		authlockout.WithLogger(a.logger),
		authlockout.WithMetrics(authlockout.NewMetrics(nil)),
	)
}

func (a *app) close() {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("redis close failed", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("database close failed", "error", err)
		}
	}
}
