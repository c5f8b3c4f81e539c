package httpapi

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// MetricsSubsystem prefixes the HTTP metrics exposed on /metrics.
const MetricsSubsystem = "usuarios_devserver"

// Deps are the collaborators of the router. A nil Registry gets a fresh one.
type Deps struct {
	Users    UserService
	Log      zerolog.Logger
	Registry *prometheus.Registry
	DBPing   Pinger
}

// NewRouter builds the Echo instance with middleware and all routes.
func NewRouter(d Deps) *echo.Echo {
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  MetricsSubsystem,
		Registerer: d.Registry,
	}))

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Registry}))

	health := NewHealthHandler(d.DBPing)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)

	h := NewUsersHandler(d.Users)
	api := e.Group("/api/usuarios")
	api.POST("/login", h.Login)
	api.POST("/registrar", h.Register)
	api.POST("/actualizar", h.Update)
	api.POST("/eliminar", h.Delete)
	api.GET("/:id", h.Get)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
