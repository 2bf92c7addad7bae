package v1

import (
	"net/http"

	"elitesite-backend/config"
	_ "elitesite-backend/docs" // Swagger spec
	"elitesite-backend/internal/delivery/http/middleware"
	"elitesite-backend/internal/delivery/http/response"
	"elitesite-backend/internal/domain"
	"elitesite-backend/pkg/logger"
	"elitesite-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	HealthUC  domain.HealthUsecase
	Redis     *goredis.Client // optional, shared rate limit counters
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Rate limiting keys on ClientIP, so forwarded headers only count from known proxies
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		logger.Log.Warn("Invalid TRUSTED_PROXIES, using peer address as client IP", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.CORSAllowedOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": domain.MsgMethodNotAllowed})
	})
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Not found.")
	})

	api := r.Group("/api")

	NewHealthHandler(api, deps.HealthUC)

	contactLimit := middleware.ContactRateLimitConfig(deps.Config.ContactRateLimit, deps.Config.RateLimitWindow(), deps.Redis)
	contactLimit.OnLimit = func(*gin.Context) { metrics.RecordSubmission(metrics.OutcomeRateLimited) }
	NewContactHandler(api, deps.ContactUC, middleware.RateLimitMiddleware(contactLimit))

	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
