package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"droneregistry/internal/platform/config"
	"droneregistry/internal/platform/httpserver"
	platformmetrics "droneregistry/internal/platform/metrics"
	"droneregistry/internal/registry/handler"
	"droneregistry/internal/registry/metrics"
	"droneregistry/pkg/platform/audit/outbox"
	"droneregistry/pkg/platform/audit/relay"
	"droneregistry/pkg/platform/circuit"
	"droneregistry/pkg/platform/httputil"
	"droneregistry/pkg/platform/middleware/auth"
	"droneregistry/pkg/platform/middleware/metadata"
	"droneregistry/pkg/platform/middleware/requesttime"
)

func newServeCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the audit relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			a, err := loadApp(ctx, cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.close()
			return a.serve(ctx)
		},
	}
	cmd.Flags().String("server.addr", ":8080", "listen address")
	cmd.Flags().Bool("auth.bypass", false, "treat every caller as authenticated (development only)")
	cmd.Flags().String("events.broker", config.BrokerNone, "audit broker: none, kafka or nats")
	cmd.Flags().String("redis.url", "", "redis URL for the shared token revocation list")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	if err := a.connectRedis(ctx); err != nil {
		return err
	}
	if a.cfg.Auth.Bypass {
		a.logger.WarnContext(ctx, "authentication bypass enabled; every caller has every scope")
	}
	if a.cfg.Auth.SigningKey == config.DevSigningKey {
		a.logger.WarnContext(ctx, "using the development token signing key")
	}

	outboxMetrics := outbox.NewMetrics()
	svc := a.service(metrics.New(nil), outboxMetrics)
	gate := auth.NewGate(a.tokens(), a.logger,
		auth.WithRevocations(a.revocations()),
		auth.WithBypass(a.cfg.Auth.Bypass),
	)

	limiter, err := a.loginLimiter()
	if err != nil {
		return err
	}

	publisher, err := a.publisher(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			a.logger.Warn("audit publisher close failed", "error", err)
		}
	}()
	relayer := relay.New(a.auditStore, publisher,
		relay.WithInterval(a.cfg.Events.RelayInterval),
		relay.WithBatchSize(a.cfg.Events.RelayBatch),
		relay.WithLogger(a.logger),
		relay.WithMetrics(outboxMetrics),
		relay.WithBreaker(circuit.New("audit-"+a.cfg.Events.Broker,
			circuit.WithFailureThreshold(3),
			circuit.WithSuccessThreshold(2),
		)),
	)

	router := a.router(handler.New(svc, gate, a.logger, handler.WithLoginLimiter(limiter)))
	srv := httpserver.New(a.cfg.Server, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.InfoContext(gctx, "starting drone registry",
			"addr", a.cfg.Server.Addr,
			"driver", a.cfg.Database.Driver,
			"broker", a.cfg.Events.Broker,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return relayer.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		// Flush what committed while draining.
		if _, err := relayer.RelayOnce(shutdownCtx); err != nil {
			a.logger.Warn("final audit relay failed", "error", err)
		}
		return nil
	})
	return g.Wait()
}

func (a *app) router(h *handler.Handler) http.Handler {
	httpMetrics := platformmetrics.New(nil)

	r := chi.NewRouter()
	r.Use(metadata.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(httpMetrics.Middleware)
	if a.cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(a.cfg.Server.RequestTimeout))
	}

	r.Get("/healthz", a.health)
	r.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))
	r.Route("/api/v1", h.Register)
	return r
}

type healthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks,omitempty"`
	Database string            `json:"database"`
}

func (a *app) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: a.cfg.Database.Driver, Checks: map[string]string{}}
	if a.db != nil {
		resp.Checks["database"] = checkResult(a.db.PingContext(ctx))
	}
	if a.redisClient != nil {
		resp.Checks["redis"] = checkResult(a.redisClient.Health(ctx))
	}
	status := http.StatusOK
	for _, result := range resp.Checks {
		if result != "ok" {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	httputil.WriteJSON(w, status, resp)
}

func checkResult(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}
