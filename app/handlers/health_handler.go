package handlers

import (
	"context"
	"time"

	"github.com/amirphl/meal-campaign-stats/app/dto"
	"github.com/amirphl/meal-campaign-stats/utils"
	"github.com/gofiber/fiber/v3"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandlerInterface defines the liveness endpoint
type HealthHandlerInterface interface {
	Health(c fiber.Ctx) error
}

// HealthHandler reports the state of the database and cache connections
type HealthHandler struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) HealthHandlerInterface {
	return &HealthHandler{checks: checks}
}

// Health reports service health
// @Summary Health Check
// @Tags Health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse}
// @Failure 503 {object} dto.APIResponse{data=dto.HealthResponse}
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: utils.UTCNow(),
		Checks:    make(map[string]string, len(h.checks)),
	}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Checks[name] = "ok"
	}

	if resp.Status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.APIResponse{
			Success: false,
			Message: "Service is degraded",
			Data:    resp,
			Error:   dto.ErrorDetail{Code: "SERVICE_DEGRADED"},
		})
	}
	return successResponse(c, fiber.StatusOK, "Service is healthy", resp)
}
