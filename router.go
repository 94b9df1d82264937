package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Yulian302/lfusys-services-connections/auth/handlers"
	"github.com/Yulian302/lfusys-services-connections/health"
	"github.com/Yulian302/lfusys-services-connections/logging"
	"github.com/Yulian302/lfusys-services-connections/middleware"
	"github.com/Yulian302/lfusys-services-connections/ratelimit"
	"github.com/Yulian302/lfusys-services-connections/responses"
	"github.com/Yulian302/lfusys-services-connections/routers"
	"github.com/Yulian302/lfusys-services-connections/tracing"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "connections"

func BuildRouter(app *App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	applyCors(r, app)
	applyLogging(r, app)
	applyRateLimiting(r, app)
	applyTracing(r, app)
	applySwagger(r, app)

	registerRoutes(r, app, app.Services)

	return r
}

func applyCors(r *gin.Engine, app *App) {
	origins := strings.Split(app.Config.CorsConfig.Origins, ",")
	r.Use(cors.New(
		cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			AllowCredentials: true,
		},
	))
}

func applyLogging(r *gin.Engine, app *App) {
	baseLogger := app.Logger
	if baseLogger == nil {
		baseLogger = logging.CreateLogger(app.Config.Env)
	}
	r.Use(logging.LoggerMiddleware(baseLogger))
}

func applyRateLimiting(r *gin.Engine, app *App) {
	rateLimiter := ratelimit.NewRedisRateLimiter(app.Redis)
	r.Use(middleware.RateLimiterMiddleware(rateLimiter, 100, time.Minute))
}

func applyTracing(r *gin.Engine, app *App) {
	if !app.Config.Tracing {
		return
	}

	tp, err := tracing.StartTracing(context.Background(), serviceName)
	if err != nil {
		log.Fatalf("failed to start tracing: %v", err)
	}

	app.TracerProvider = tp
	r.Use(otelgin.Middleware(serviceName))
}

func applySwagger(r *gin.Engine, app *App) {
	if app.Config.Env == "PROD" {
		return
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func registerRoutes(r *gin.Engine, app *App, s *Services) {
	r.GET("/test", func(ctx *gin.Context) {
		responses.JSONSuccess(ctx, "ok")
	})

	health.RegisterHealthRoutes(
		health.NewHealthHandler(
			s.Stores.profiles,
			s.Stores.nonces,
		),
		r,
	)

	routers.RegisterConnectionRoutes(
		handlers.NewConnectionsHandler(app.Config.FrontendURL, s.Connections),
		app.Config.JWTConfig.SecretKey,
		r,
	)
}
