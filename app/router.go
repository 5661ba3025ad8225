// Package app wires the HTTP handlers into a gin engine
package app

import (
	"bitwise74/newsletter-api/app/root"
	"bitwise74/newsletter-api/app/subscription"
	"bitwise74/newsletter-api/internal"
	"bitwise74/newsletter-api/pkg/middleware"
	"context"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewRouter builds the engine. ctx bounds the background janitor of the
// rate limiter.
func NewRouter(ctx context.Context, d *internal.Deps) *gin.Engine {
	router := gin.New()
	app := d.Settings.Application

	mw := []gin.HandlerFunc{
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(d.Log, &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.URL.Path == "/health_check" || c.Request.URL.Path == "/metrics"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := middleware.RequestID(c); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				return fields
			},
		}),
	}

	// cors.New panics on an empty origin list
	if len(app.CORSOrigins) > 0 {
		mw = append([]gin.HandlerFunc{cors.New(cors.Config{
			AllowOrigins:  app.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		})}, mw...)
	}

	router.Use(mw...)

	router.HandleMethodNotAllowed = true

	rateLimiter := middleware.NewRateLimiter(ctx, middleware.RateLimiterConfig{
		RequestsPerSecond: float64(app.RateLimit.RequestsPerSecond),
		Burst:             app.RateLimit.Burst,
	})

	// GET /health_check		-> Used to check if the server is alive
	router.GET("/health_check", root.HealthCheck)

	// GET /metrics			-> Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	subs := router.Group("/subscriptions")
	{
		// POST /subscriptions		-> Registers a pending subscriber and emails a confirmation link
		subs.POST("",
			rateLimiter.Middleware(),
			middleware.BodySizeLimiter(app.MaxBodyBytes),
			func(c *gin.Context) { subscription.Subscribe(c, d) },
		)

		// GET /subscriptions/confirm	-> Confirms the subscriber owning subscription_token
		subs.GET("/confirm", func(c *gin.Context) { subscription.Confirm(c, d) })
	}

	return router
}
