package server

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"hireflow/internal/grpc/interceptors"
	"hireflow/internal/logging"
)

// ServiceName is the name reported by the health service alongside the
// overall "" status
const ServiceName = "hireflow.v1.Hireflow"

const stopTimeout = 5 * time.Second

// Server serves the standard gRPC health service. Its status follows the
// probe, which is rerun every interval.
type Server struct {
	grpc     *grpc.Server
	health   *health.Server
	probe    func(ctx context.Context) error
	interval time.Duration
	logger   logging.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewServer(probe func(ctx context.Context) error, interval time.Duration, logger logging.Logger) *Server {
	grpcServer := grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 5 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.ChainUnaryInterceptor(
			interceptors.RecoveryInterceptor(),
			interceptors.LoggingInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			interceptors.StreamRecoveryInterceptor(),
			interceptors.StreamLoggingInterceptor(),
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	// Enable reflection for debugging
	reflection.Register(grpcServer)

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		ctx:      ctx,
		cancel:   cancel,
		grpc:     grpcServer,
		health:   hs,
		probe:    probe,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the probe loop and serves on lis until Stop
func (s *Server) Start(lis net.Listener) error {
	s.Refresh(s.ctx)
	go s.watch(s.ctx)

	s.logger.Info("Starting gRPC server", map[string]interface{}{"address": lis.Addr().String()})
	return s.grpc.Serve(lis)
}

// Refresh runs the probe once and publishes the result
func (s *Server) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if s.probe != nil {
		probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := s.probe(probeCtx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			s.logger.Warn("Health probe failed", map[string]interface{}{"error": err.Error()})
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

func (s *Server) watch(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Stop marks every service as not serving and drains in-flight calls
func (s *Server) Stop() {
	s.logger.Info("Shutting down gRPC server...")
	s.cancel()
	s.health.Shutdown()

	// Health watches never end on their own
	stopped := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(stopTimeout):
		s.grpc.Stop()
	}
}
