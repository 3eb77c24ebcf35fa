package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-watermark/internal/config"
	"github.com/phambaophuc/image-watermark/internal/http/handlers"
	"github.com/phambaophuc/image-watermark/internal/http/middleware"
	"go.uber.org/zap"
)

type Router struct {
	watermarkHandler *handlers.WatermarkHandler
	logger           *zap.Logger
	config           config.ServerConfig
	limiter          *middleware.RateLimiter
}

func NewRouter(
	watermarkHandler *handlers.WatermarkHandler,
	logger *zap.Logger,
	cfg config.ServerConfig,
) *Router {
	r := &Router{
		watermarkHandler: watermarkHandler,
		logger:           logger,
		config:           cfg,
	}
	if cfg.RateLimit > 0 {
		r.limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	}
	return r
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS(r.config.AllowedOrigins))
	router.Use(middleware.SecurityHeaders())
	if r.limiter != nil {
		router.Use(r.limiter.Limit())
	}

	router.GET("/addWatermark", r.watermarkHandler.AddWatermark)

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.watermarkHandler.HealthCheck)
		v1.GET("/stats", r.watermarkHandler.GetStats)

		jobs := v1.Group("/watermarks/jobs")
		{
			jobs.POST("", middleware.ValidateContentType("application/json"), r.watermarkHandler.CreateJob)
			jobs.GET("/:id", r.watermarkHandler.GetJob)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Image watermark is running",
		})
	})

	return router
}

// Close releases the rate limiter.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Stop()
	}
}
