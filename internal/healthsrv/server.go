// Package healthsrv exposes the standard gRPC health service so orchestrators
// can probe the store next to the HTTP /healthz endpoint.
package healthsrv

import (
	"context"
	"errors"
	"net"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Service is the name reported next to the overall ("") status.
const Service = "aura.store.v1.Store"

type Server struct {
	grpc   *grpc.Server
	health *health.Server
}

// New returns a server that reports NOT_SERVING until SetServing(true).
func New() *Server {
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	s := &Server{grpc: gs, health: hs}
	s.SetServing(false)
	return s
}

func (s *Server) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(Service, st)
}

// Serve blocks until the listener fails or Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	log.Info().Str("addr", lis.Addr().String()).Msg("grpc health listening")
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Stop drains in-flight probes, forcing a stop once ctx expires.
func (s *Server) Stop(ctx context.Context) {
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		log.Warn().Msg("grpc graceful stop timeout, forcing stop")
		s.grpc.Stop()
	case <-stopped:
	}
}
