package main

import (
	"context"
	"fmt"
	"log/slog"

	"tosgate/internal/audit"
	identityStore "tosgate/internal/identity/store"
	"tosgate/internal/platform/config"
	"tosgate/internal/platform/database"
	"tosgate/internal/platform/health"
	"tosgate/internal/platform/kafka/producer"
	"tosgate/internal/platform/redis"
	"tosgate/internal/terms/ledger"
	termsStore "tosgate/internal/terms/store"
)

const (
	auditBufferSize     = 1024
	auditHistoryPerUser = 100
)

// backends holds the selected stores and the connections behind them.
type backends struct {
	terms  termsStore.Store
	claims ledger.ClaimsStore
	db     *database.Pool
	redis  *redis.Client
}

func (b *backends) Close() {
	if b.db != nil {
		_ = b.db.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

// openBackends selects terms and claims storage from cfg.StoreBackend and
// registers readiness checks for any connection it opens.
func openBackends(ctx context.Context, cfg config.Server, log *slog.Logger, h *health.Handler) (*backends, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn("using in-memory stores; data is lost on restart")
		return &backends{
			terms:  termsStore.New(),
			claims: identityStore.New(),
		}, nil

	case config.BackendPostgres:
		pool, err := database.New(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		h.RegisterCheck("postgres", pool.Health)
		return &backends{
			terms:  termsStore.NewPostgres(pool.DB()),
			claims: identityStore.NewPostgres(pool.DB()),
			db:     pool,
		}, nil

	case config.BackendRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		h.RegisterCheck("redis", client.Health)
		return &backends{
			terms:  termsStore.NewRedis(client.Client),
			claims: identityStore.NewRedis(client.Client),
			redis:  client,
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

// auditor owns the publisher and, when Kafka is configured, its producer.
type auditor struct {
	*audit.Publisher
	producer *producer.Producer
}

func (a *auditor) Close() {
	a.Publisher.Close()
	if a.producer != nil {
		_ = a.producer.Close()
	}
}

// openAuditor builds an async publisher. Events are kept in memory and, when
// KAFKA_BROKERS is set, also forwarded to the audit topic.
func openAuditor(cfg config.Server, log *slog.Logger, h *health.Handler) (*auditor, error) {
	var store audit.Store = audit.NewInMemoryStore(audit.WithMaxEventsPerUser(auditHistoryPerUser))
	a := &auditor{}

	if len(cfg.Kafka.Brokers) > 0 {
		p, err := producer.New(producer.DefaultConfig(cfg.Kafka.Brokers), log)
		if err != nil {
			return nil, fmt.Errorf("connect kafka: %w", err)
		}
		h.RegisterCheck("kafka", p.Health)
		store = audit.NewKafkaStore(store, p, cfg.Kafka.AuditTopic)
		a.producer = p
		log.Info("audit events forwarded to kafka", "topic", cfg.Kafka.AuditTopic)
	}

	a.Publisher = audit.NewPublisher(store,
		audit.WithAsyncBuffer(auditBufferSize),
		audit.WithPublisherLogger(log),
	)
	return a, nil
}
