package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/internbridge/trustguard/api/handlers"
	"github.com/internbridge/trustguard/api/middleware"
	"github.com/internbridge/trustguard/internal/repository"
	"github.com/internbridge/trustguard/internal/tracing"
	"github.com/internbridge/trustguard/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, s *services.Services, repos *repository.Repositories, apikey string) {
	if s == nil {
		panic("Services cannot be nil")
	}
	if repos == nil {
		panic("Repositories cannot be nil")
	}

	// Add recovery middlewares
	r.Use(gin.Recovery())                                         // Gin's built-in recovery
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer())) // Our custom Jaeger recovery

	// setup handlers
	apiHandlers := handlers.InitHandlers(s, repos)

	// Health check endpoint (no auth)
	r.GET("/health", handlers.HealthCheck)

	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  "X-TRUSTGUARD-API-KEY",
		ValidAPIKey: apikey,
	})

	// API group with version
	api := r.Group("/v1")
	api.Use(apiKeyMiddleware)
	{
		// Company trust and behavior endpoints
		companies := api.Group("/companies")
		{
			companies.POST("/:id/trust-score/compute", tracing.TracingEnhancer(ctx, "POST /companies/:id/trust-score/compute"), apiHandlers.Trust.ComputeScore())
			companies.GET("/:id/trust-score/history", tracing.TracingEnhancer(ctx, "GET /companies/:id/trust-score/history"), apiHandlers.Trust.History())
			companies.GET("/:id/behavior-check", tracing.TracingEnhancer(ctx, "GET /companies/:id/behavior-check"), apiHandlers.Trust.BehaviorCheck())
			companies.POST("/:id/reports/aggregate", tracing.TracingEnhancer(ctx, "POST /companies/:id/reports/aggregate"), apiHandlers.Reports.Aggregate())
		}

		// Listing moderation endpoints
		listings := api.Group("/listings")
		{
			listings.POST("/evaluate", tracing.TracingEnhancer(ctx, "POST /listings/evaluate"), apiHandlers.Listings.Evaluate())
		}

		// Escrow endpoints
		escrow := api.Group("/escrow")
		{
			escrow.POST("/deposits", tracing.TracingEnhancer(ctx, "POST /escrow/deposits"), apiHandlers.Escrow.CreateDeposit())
			escrow.POST("/deposits/confirm", tracing.TracingEnhancer(ctx, "POST /escrow/deposits/confirm"), apiHandlers.Escrow.ConfirmDeposit())
			escrow.POST("/transactions/:id/release", tracing.TracingEnhancer(ctx, "POST /escrow/transactions/:id/release"), apiHandlers.Escrow.Release())
		}
	}
}
