package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/taskforge/task-api/internal/api/handler"
	"github.com/taskforge/task-api/internal/api/middleware"
	"github.com/taskforge/task-api/internal/core/domain"
	"github.com/taskforge/task-api/internal/core/ports"
	"github.com/taskforge/task-api/internal/infrastructure/http/handlers"
)

const metricsSubsystem = "taskapi"

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Auth          ports.AuthService
	Tasks         ports.TaskService
	Identities    ports.IdentityService
	Authenticator middleware.Authenticator
	Readiness     map[string]handlers.Pinger
	CORSOrigins   []string
	Logger        zerolog.Logger

	// Metrics receives the HTTP collectors and backs /metrics. Nil means the
	// default Prometheus registry, where the custom metrics also live.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// Protected routes run authenticate, then the role guard where one applies,
// then the handler; ownership is checked inside the task service.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	taskHandler := handler.NewTaskHandler(deps.Tasks)
	identityHandler := handler.NewIdentityHandler(deps.Identities)
	authenticate := middleware.Authenticate(deps.Authenticator)

	// --- Public routes ---
	e.GET("/", index)
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated routes ---
	e.GET("/me", identityHandler.Me, authenticate)

	tasks := e.Group("/tasks", authenticate, middleware.RequireRoles(domain.RoleUser, domain.RoleAdmin))
	tasks.POST("", taskHandler.Create)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	admin := e.Group("/admin", authenticate, middleware.RequireRoles(domain.RoleAdmin))
	admin.GET("/identities/:id", identityHandler.Get)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(deps.Readiness).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"service": "task-api", "docs": "/swagger/index.html"})
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
