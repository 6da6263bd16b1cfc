// Command transcript-merge-engine runs the HTTP ingest/snapshot/stream
// surface plus a gRPC health/reflection endpoint over the transcript
// merge engine.
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"transcript-merge-engine/internal/app"
	"transcript-merge-engine/internal/config"
	"transcript-merge-engine/internal/events"
	httpapi "transcript-merge-engine/internal/http"
	"transcript-merge-engine/internal/merge"
	"transcript-merge-engine/internal/models"
	"transcript-merge-engine/internal/observability"
	"transcript-merge-engine/internal/registry"
	"transcript-merge-engine/internal/service/ingest"
)

func main() {
	cfg := config.Load()
	a := app.New(cfg)
	if err := a.Start(); err != nil {
		a.Logger.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Shutdown()

	publisher := events.New(&events.Config{
		Enabled:   len(cfg.Kafka.Brokers) > 0,
		Brokers:   cfg.Kafka.Brokers,
		Topic:     cfg.Kafka.Topic,
		Principal: cfg.Kafka.Principal,
	})
	defer publisher.Close()

	engineCfg := merge.EngineConfig{
		AllowedGaps:  cfg.Merge.AllowedGaps,
		RingCapacity: cfg.Merge.RingCapacity,
	}
	reg := registry.New(engineCfg, a.Logger)
	ingestHandler := ingest.NewHandler(a.Logger)

	obsServer := observability.NewServer(":" + cfg.Observability.MetricsPort)
	obsServer.Start()

	httpServer := &http.Server{
		Addr: ":" + cfg.Service.HTTPPort,
		Handler: httpapi.NewRouter(httpapi.Deps{
			Cfg:    cfg,
			Reg:    reg,
			Ingest: ingestHandler,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		a.Logger.Info().Str("addr", httpServer.Addr).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	lis, err := net.Listen("tcp", ":"+cfg.Service.GRPCPort)
	if err != nil {
		a.Logger.Fatal().Err(err).Msg("failed to listen for gRPC")
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(observability.UnaryServerInterceptor()),
	)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	go func() {
		a.Logger.Info().Str("addr", lis.Addr().String()).Msg("starting gRPC server")
		if err := grpcServer.Serve(lis); err != nil {
			a.Logger.Fatal().Err(err).Msg("gRPC server failed")
		}
	}()

	drainInterval := time.Duration(cfg.Merge.DrainIntervalMs) * time.Millisecond
	drainDone := make(chan struct{})
	go runDrainLoop(drainInterval, reg, publisher, cfg.Kafka.Principal, a.Logger, drainDone)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	a.Logger.Info().Msg("shutting down")
	close(drainDone)

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpcServer.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if err := obsServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error().Err(err).Msg("observability server shutdown error")
	}
}

// runDrainLoop is the consumer context: on every tick it drains every
// interaction's ring and publishes a snapshot event for each one that
// had anything merged. Grounded on clear_queue_timer_'s 1000ms wall
// timer driving clear_queue_'s drain-then-publish.
func runDrainLoop(interval time.Duration, reg *registry.Registry, publisher *events.Publisher, tenantID string, log zerolog.Logger, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			reg.DrainAllAnd(func(interactionID string, snap merge.Snapshot) {
				event := models.NewSnapshotEvent(interactionID, tenantID, time.Now().UnixMilli(), snap)
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := publisher.PublishSnapshot(ctx, interactionID, event); err != nil {
					log.Error().Err(err).Str("interactionId", interactionID).Msg("failed to publish snapshot")
				}
				cancel()
			})
		}
	}
}
