// Package grpchealth serves the standard gRPC health protocol so
// orchestrators can probe the API without HTTP.
package grpchealth

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/infralens/api/internal/middleware"
)

// ServiceName is the health service name reported alongside the overall ("") status.
const ServiceName = "infralens.api"

// Probe reports whether a dependency is reachable.
type Probe func(ctx context.Context) error

// Server wraps a gRPC server exposing grpc.health.v1.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	probe  Probe
	logger *zap.Logger
}

// New creates the server. probe decides SERVING vs NOT_SERVING for
// ServiceName; nil means always serving.
func New(auth *middleware.Authenticator, probe Probe, logger *zap.Logger) *Server {
	gs := grpc.NewServer(
		grpc.ChainUnaryInterceptor(middleware.GRPCLogger(logger), auth.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(auth.StreamServerInterceptor()),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &Server{grpc: gs, health: hs, probe: probe, logger: logger}
}

// Refresh runs the probe once and updates ServiceName's status.
func (s *Server) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if s.probe != nil {
		if err := s.probe(ctx); err != nil {
			s.logger.Warn("health probe failed", zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Watch refreshes the status every interval until ctx is done.
func (s *Server) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, interval/2)
			s.Refresh(probeCtx)
			cancel()
		}
	}
}

// Serve blocks serving on lis.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// Shutdown marks every service NOT_SERVING and stops gracefully.
func (s *Server) Shutdown() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
