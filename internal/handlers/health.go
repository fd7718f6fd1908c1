package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StatsReporter is implemented by checks that expose runtime counters.
type StatsReporter interface {
	GetStats() map[string]interface{}
}

// HealthHandler reports service and dependency status.
type HealthHandler struct {
	version string
	checks  map[string]HealthChecker
}

func NewHealthHandler(version string, checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{version: version, checks: checks}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "ok"
	services := fiber.Map{}
	for name, check := range h.checks {
		entry := fiber.Map{"status": "connected"}
		if err := check.HealthCheck(ctx); err != nil {
			status = "degraded"
			entry["status"] = "unavailable"
			entry["error"] = err.Error()
		}
		if reporter, ok := check.(StatsReporter); ok {
			entry["stats"] = reporter.GetStats()
		}
		services[name] = entry
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"version":  h.version,
		"services": services,
	})
}
