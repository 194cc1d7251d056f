package main

import (
	"log/slog"
	"sync"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// healthReporter mirrors the registered store names as gRPC health services.
type healthReporter struct {
	server  *health.Server
	serving map[string]bool
	mu      sync.Mutex
}

func newHealthReporter(server *health.Server) *healthReporter {
	return &healthReporter{
		server:  server,
		serving: make(map[string]bool),
	}
}

// Sync marks names as serving and every previously reported name that is
// missing from names as not serving.
func (h *healthReporter) Sync(names []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current := make(map[string]bool, len(names))
	for _, name := range names {
		current[name] = true
		if !h.serving[name] {
			h.server.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
			slog.Debug("Store serving", "model", name)
		}
	}

	for name, serving := range h.serving {
		if serving && !current[name] {
			h.server.SetServingStatus(name, healthpb.HealthCheckResponse_NOT_SERVING)
			slog.Debug("Store not serving", "model", name)
		}
	}

	h.serving = current
}
