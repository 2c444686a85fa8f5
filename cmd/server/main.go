package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	jwttoken "tosgate/internal/jwt_token"
	"tosgate/internal/platform/config"
	"tosgate/internal/platform/health"
	"tosgate/internal/platform/httpserver"
	"tosgate/internal/platform/logger"
	"tosgate/internal/platform/metrics"
	"tosgate/internal/platform/tracer"
	termsHandler "tosgate/internal/terms/handler"
	"tosgate/internal/terms/ledger"
	termsMetrics "tosgate/internal/terms/metrics"
	"tosgate/internal/terms/service"
	termsStore "tosgate/internal/terms/store"
	httptransport "tosgate/internal/transport/http"
)

const (
	shutdownTimeout   = 10 * time.Second
	poolStatsInterval = 15 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing tosgate",
		"addr", cfg.Addr,
		"env", cfg.Environment,
		"store_backend", cfg.StoreBackend,
		"claims_namespace", cfg.Claims.Namespace,
	)

	healthHandler := health.New(cfg.Environment)

	infra, err := openBackends(ctx, cfg, log, healthHandler)
	if err != nil {
		return err
	}
	defer infra.Close()

	auditSink, err := openAuditor(cfg, log, healthHandler)
	if err != nil {
		return err
	}
	defer auditSink.Close()

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracer provider shutdown failed", "error", err)
		}
	}()
	trc := tracer.NewOTel()

	tm := termsMetrics.New(prometheus.DefaultRegisterer)

	acks, err := ledger.New(infra.claims, cfg.Claims.Namespace,
		ledger.WithMaxClaimsBytes(cfg.Claims.MaxBytes),
		ledger.WithMaxAttempts(cfg.Claims.MaxAttempts),
		ledger.WithLogger(log),
		ledger.WithTracer(trc),
		ledger.WithMetrics(tm),
	)
	if err != nil {
		return fmt.Errorf("build ledger: %w", err)
	}

	terms := termsStore.NewCached(infra.terms, cfg.Terms.CacheTTL)
	svc := service.NewService(terms, acks, auditSink.Publisher, log,
		service.WithMetrics(tm),
		service.WithTracer(trc),
	)

	jwtService := jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.IssuerBaseURL, cfg.JWT.Audience, cfg.JWT.TokenTTL)
	jwtService.SetEnv(cfg.Environment)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		RequestTimeout: cfg.RequestTimeout,
		Validator:      jwttoken.NewJWTServiceAdapter(jwtService),
		Metrics:        metrics.New(prometheus.DefaultRegisterer),
		Gatherer:       prometheus.DefaultGatherer,
		Health:         healthHandler,
		Terms:          termsHandler.New(svc, log),
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if infra.redis != nil {
		g.Go(func() error {
			return infra.redis.RunPoolStats(gctx, poolStatsInterval)
		})
	}

	return g.Wait()
}
