package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger checks a dependency, e.g. (*sql.DB).PingContext.
type Pinger func(ctx context.Context) error

// HealthHandler serves GET /health (liveness) and GET /health/ready
// (readiness). A nil db means there is nothing to check.
type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthHandler) Readiness(c echo.Context) error {
	deps := map[string]dependencyStatus{}
	if h.db == nil {
		return c.JSON(http.StatusOK, readinessResponse{Status: "ok", Dependencies: deps})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.db(ctx); err != nil {
		deps["postgres"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		return c.JSON(http.StatusServiceUnavailable, readinessResponse{Status: "degraded", Dependencies: deps})
	}
	deps["postgres"] = dependencyStatus{Status: "ok"}
	return c.JSON(http.StatusOK, readinessResponse{Status: "ok", Dependencies: deps})
}
