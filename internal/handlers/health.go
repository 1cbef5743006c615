package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a dependency is reachable
type Pinger func(ctx context.Context) error

// HealthHandler handles health check requests
type HealthHandler struct {
	Version string
	Storage string
	checks  map[string]Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, storage string) *HealthHandler {
	return &HealthHandler{
		Version: version,
		Storage: storage,
		checks:  make(map[string]Pinger),
	}
}

// AddCheck registers a dependency shown in the health report
func (h *HealthHandler) AddCheck(name string, ping Pinger) {
	h.checks[name] = ping
}

// Check returns the health status of the service. Only the database is
// critical; Redis being down degrades locking but not correctness.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := fiber.StatusOK
	deps := fiber.Map{}
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			deps[name] = "error: " + err.Error()
			if name == "database" {
				status = "unhealthy"
				code = fiber.StatusServiceUnavailable
			}
			continue
		}
		deps[name] = "connected"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":       status,
		"service":      "Carrier Engine",
		"version":      h.Version,
		"storage":      h.Storage,
		"dependencies": deps,
	})
}
