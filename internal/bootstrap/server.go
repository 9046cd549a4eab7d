package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/cruisebooking/config"
	"github.com/Domenick1991/cruisebooking/internal/logging"
	"github.com/rs/cors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const probeInterval = 15 * time.Second

// Probe reports whether a backing dependency is reachable.
type Probe func(ctx context.Context) error

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	health     *health.Server
	probes     map[string]Probe
	log        logging.Logger
}

// Run starts the HTTP API and, when grpc.address is set, the gRPC health
// service. It blocks until ctx is canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler, probes map[string]Probe, log logging.Logger) error {
	s := newServers(cfg, handler, probes, log)

	errCh := make(chan error, 2)

	if s.grpcServer != nil {
		lis, err := net.Listen("tcp", cfg.GRPC.Address)
		if err != nil {
			return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
		}
		go func() { errCh <- s.grpcServer.Serve(lis) }()
		go s.watch(ctx)
		log.Info(ctx, "grpc health server listening", "address", cfg.GRPC.Address)
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info(ctx, "http server listening", "address", cfg.HTTP.Address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info(context.Background(), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if s.grpcServer != nil {
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
		}
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServers(cfg *config.Config, handler http.Handler, probes map[string]Probe, log logging.Logger) *Servers {
	s := &Servers{probes: probes, log: log}

	if cfg.GRPC.Address != "" {
		s.health = health.NewServer()
		s.grpcServer = grpc.NewServer()
		healthpb.RegisterHealthServer(s.grpcServer, s.health)
	}

	s.httpServer = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           withCORS(cfg.CORS, handler),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func withCORS(cfg config.CORSConfig, h http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
	}).Handler(h)
}

// watch keeps the gRPC health status in line with the probes.
func (s *Servers) watch(ctx context.Context) {
	s.check(ctx)
	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *Servers) check(ctx context.Context) {
	overall := healthpb.HealthCheckResponse_SERVING
	for name, probe := range s.probes {
		status := healthpb.HealthCheckResponse_SERVING
		probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := probe(probeCtx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = status
			s.log.Warn(ctx, "dependency unhealthy", "dependency", name, "error", err)
		}
		cancel()
		s.health.SetServingStatus(name, status)
	}
	s.health.SetServingStatus("", overall)
}
