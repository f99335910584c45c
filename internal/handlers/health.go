package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vetbotio/vetbot/internal/healthcheck"
)

type HealthHandler struct {
	logger   *slog.Logger
	checkers []healthcheck.Checker
}

func NewHealthHandler(log *slog.Logger, checkers ...healthcheck.Checker) *HealthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HealthHandler{
		logger:   log.With(slog.String("handler", "health")),
		checkers: checkers,
	}
}

func (h *HealthHandler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)
}

type healthResponse struct {
	Status string                    `json:"status"`
	Checks []healthcheck.CheckResult `json:"checks"`
}

// Health runs every checker and aggregates: any error-status check makes the
// whole response 503.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	checks := make([]healthcheck.CheckResult, 0)
	status := healthcheck.StatusOK
	for _, checker := range h.checkers {
		for _, item := range checker.ListChecks(ctx) {
			checks = append(checks, item)
			if item.Status == healthcheck.StatusError {
				status = healthcheck.StatusError
			}
		}
	}
	code := http.StatusOK
	if status == healthcheck.StatusError {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, healthResponse{Status: status, Checks: checks})
}
