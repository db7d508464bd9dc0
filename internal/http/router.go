package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/docgate/internal/auth"
	"github.com/geocoder89/docgate/internal/config"
	"github.com/geocoder89/docgate/internal/domain/user"
	"github.com/geocoder89/docgate/internal/http/handlers"
	"github.com/geocoder89/docgate/internal/http/middlewares"
	"github.com/geocoder89/docgate/internal/observability"
	"github.com/geocoder89/docgate/internal/services"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	serviceName      = "docgate"
	documentsListTTL = 5 * time.Second
)

// Deps is everything the router needs; stores are interfaces so the same
// wiring runs over postgres in production and memory in tests.
type Deps struct {
	Log  *slog.Logger
	Cfg  config.Config
	Prom *observability.Prom

	// Ping backs /readyz; nil means always ready.
	Ping func(ctx context.Context) error
	// Metrics serves /metrics; nil leaves the route unmounted.
	Metrics http.Handler

	Users     services.UsersStore
	Documents services.DocumentsStore
	Ingestion handlers.IngestionRunner
	// IngestionState reports the processor circuit, when there is one.
	IngestionState func() string

	Tokens *auth.Manager
}

func NewRouter(deps Deps) *gin.Engine {
	if deps.Cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	log := deps.Log
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(deps.Cfg.CORSAllowedOrigins))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(log))
	if deps.Cfg.MaxBodyBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(deps.Cfg.MaxBodyBytes))
	}
	r.Use(middlewares.RequireJSON())

	// health
	h := handlers.NewHealthHandler(deps.Ping, deps.IngestionState)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	// wire up services
	authSvc := auth.NewService(deps.Users, deps.Tokens)
	usersSvc := services.NewUsersService(deps.Users)
	docsSvc := services.NewDocumentsService(deps.Documents, documentsListTTL)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(authSvc, deps.Prom)
	usersHandler := handlers.NewUsersHandler(usersSvc)
	docsHandler := handlers.NewDocumentsHandler(docsSvc)
	ingestionHandler := handlers.NewIngestionHandler(deps.Ingestion, deps.Prom)

	authMW := middlewares.NewAuthMiddleware(deps.Tokens)

	limit := deps.Cfg.AuthRateLimit
	if limit <= 0 {
		limit = 20
	}
	authLimiter := middlewares.NewRateLimiter(limit, time.Minute)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authLimiter.Middleware(middlewares.KeyByIP), authHandler.Register)
		authGroup.POST("/login", authLimiter.Middleware(middlewares.KeyByIP), authHandler.Login)
		authGroup.GET("/me", authMW.RequireAuth(), authHandler.Me)
	}

	usersGroup := r.Group("/users", authMW.RequireAuth(), authMW.RequireRole(user.RoleAdmin))
	{
		usersGroup.GET("", usersHandler.List)
		usersGroup.GET("/:id", usersHandler.Get)
		usersGroup.PATCH("/role", usersHandler.UpdateRole)
		usersGroup.DELETE("/:id", usersHandler.Delete)
	}

	docsGroup := r.Group("/documents")
	readGuards, writeGuards := documentGuards(authMW, deps.Cfg.DocumentsAuth)
	{
		docsGroup.POST("", append(writeGuards, docsHandler.Create)...)
		docsGroup.GET("", append(readGuards, docsHandler.List)...)
		docsGroup.GET("/:id", append(readGuards, docsHandler.Get)...)
		docsGroup.PATCH("/:id", append(writeGuards, docsHandler.Update)...)
		docsGroup.DELETE("/:id", append(writeGuards, docsHandler.Delete)...)
	}

	if deps.Ingestion != nil {
		ingestionGroup := r.Group("/ingestion")
		{
			ingestionGroup.POST("/trigger", ingestionHandler.Trigger)
			ingestionGroup.GET("/status", ingestionHandler.Status)
		}
	}

	return r
}

// documentGuards returns the middleware chains for document reads and writes.
// With guarding off both chains are empty.
func documentGuards(m *middlewares.AuthMiddleware, enabled bool) (read, write []gin.HandlerFunc) {
	if !enabled {
		return nil, nil
	}

	read = []gin.HandlerFunc{m.RequireAuth()}
	write = []gin.HandlerFunc{m.RequireAuth(), m.RequireRole(user.RoleAdmin, user.RoleEditor)}

	return read, write
}
