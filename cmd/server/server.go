package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/encounter-forge/internal/config"
	"github.com/KirkDiggler/encounter-forge/internal/errors"
	"github.com/KirkDiggler/encounter-forge/internal/handlers/encounterforge/v1alpha1"
	"github.com/KirkDiggler/encounter-forge/internal/handlers/web"
	"github.com/KirkDiggler/encounter-forge/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

var (
	grpcAddr string
	httpAddr string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC and HTTP servers",
	Long:  `Start encounter-forge serving gRPC for the CLI and the JSON HTTP API for the browser front end.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVar(&grpcAddr, "grpc-addr", "", "gRPC listen address (overrides ENCOUNTER_FORGE_GRPC_ADDR)")
	serverCmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP listen address (overrides ENCOUNTER_FORGE_HTTP_ADDR)")
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if grpcAddr != "" {
		cfg.GRPCAddr = grpcAddr
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}

	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, &telemetry.Config{
		ServiceName: "encounter-forge",
		Endpoint:    cfg.OTelEndpoint,
		Enabled:     cfg.OTelEnabled,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	svc, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		EncounterService: svc.encounters,
		BattleService:    svc.battles,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create encounter handler")
	}

	webServer, err := web.NewServer(&web.Config{
		EncounterService: svc.encounters,
		BattleService:    svc.battles,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create http handler")
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", cfg.GRPCAddr)
	}

	grpcLogger := grpc_logging.LoggerFunc(slogFunc(logger))
	recoveryOpt := grpc_recovery.WithRecoveryHandlerContext(recoverFunc)

	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpcLogger),
			grpc_recovery.UnaryServerInterceptor(recoveryOpt),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpcLogger),
			grpc_recovery.StreamServerInterceptor(recoveryOpt),
		),
	)

	v1alpha1.RegisterEncounterServiceServer(srv, handler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           webServer.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 2)
	go func() {
		slog.Info("grpc server starting", "addr", cfg.GRPCAddr)
		if err := srv.Serve(lis); err != nil {
			errChan <- errors.Wrap(err, "grpc server failed")
		}
	}()
	go func() {
		slog.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errChan <- errors.Wrap(err, "http server failed")
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("received shutdown signal, gracefully stopping")
	case serveErr = <-errChan:
		slog.Error("server failed, shutting down", "error", serveErr)
	}

	healthServer.Shutdown()
	shutdown(srv, httpServer)

	return serveErr
}

// shutdown drains both servers, forcing the gRPC server down once the
// timeout passes
func shutdown(srv *grpc.Server, httpServer *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http server did not shut down cleanly", "error", err)
	}

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-shutdownCtx.Done():
		slog.Warn("graceful shutdown timeout exceeded, forcing stop")
		srv.Stop()
	case <-stopped:
		slog.Info("server stopped gracefully")
	}
}

// slogFunc bridges the middleware logger to slog; the level values line up
func slogFunc(logger *slog.Logger) func(context.Context, grpc_logging.Level, string, ...any) {
	return func(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
		logger.Log(ctx, slog.Level(level), msg, fields...)
	}
}

func recoverFunc(ctx context.Context, p any) error {
	slog.ErrorContext(ctx, "panic in grpc handler", "panic", p)
	return status.Error(codes.Internal, "internal error")
}
