package routes

import (
	"net/http"
	"time"

	"exhibae/internal/analytics"
	"exhibae/internal/applications"
	"exhibae/internal/auth"
	"exhibae/internal/chat"
	"exhibae/internal/coupons"
	"exhibae/internal/exhibitions"
	"exhibae/internal/notifications"
	"exhibae/internal/payments"
	"exhibae/internal/realtime"
	"exhibae/internal/shared/config"
	"exhibae/internal/shared/database"
	"exhibae/internal/shared/utils/response"
	"exhibae/internal/stalls"
	"exhibae/pkg/cache"
	"exhibae/pkg/logger"
	"exhibae/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies carries everything the router needs wired up
type Dependencies struct {
	Config   *config.Config
	DB       *database.DB
	Producer notifications.Producer
}

// Setup builds the gin engine with every domain router mounted
func Setup(deps *Dependencies) (*gin.Engine, *realtime.Hub) {
	cfg := deps.Config
	gin.SetMode(cfg.GinMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())
	engine.Use(cors.New(corsConfig(cfg)))

	rateLimiter := ratelimit.NewRateLimiter(deps.DB.GetRedis(), &ratelimit.Config{
		Enabled:             cfg.RateLimit.Enabled,
		WindowDuration:      cfg.RateLimit.WindowDuration,
		DefaultRequests:     cfg.RateLimit.DefaultRequests,
		PublicRequests:      cfg.RateLimit.PublicRequests,
		AuthRequests:        cfg.RateLimit.AuthRequests,
		ApplicationRequests: cfg.RateLimit.ApplicationRequests,
		AdminRequests:       cfg.RateLimit.AdminRequests,
		AnalyticsRequests:   cfg.RateLimit.AnalyticsRequests,
		WhitelistedIPs:      cfg.RateLimit.WhitelistedIPs,
	})
	engine.Use(ratelimit.Middleware(rateLimiter))

	// Shared infrastructure
	cacheService := cache.NewService(deps.DB.GetRedis())
	hub := realtime.NewHub(deps.DB.GetRedis())
	pg := deps.DB.GetPostgreSQL()

	// Services, wired bottom-up
	notificationService := notifications.NewService(notifications.NewRepository(pg), deps.Producer)
	authService := auth.NewService(auth.NewRepository(pg), cfg)
	exhibitionService := exhibitions.NewService(exhibitions.NewRepository(pg), cacheService)
	stallRepo := stalls.NewRepository(pg)
	stallService := stalls.NewService(stallRepo)
	claimStore := applications.NewClaimStore(deps.DB.GetRedis(), cfg.Redis.ClaimTTL)
	applicationService := applications.NewService(
		applications.NewRepository(pg), stallRepo, claimStore, notificationService, hub)
	couponService := coupons.NewService(coupons.NewRepository(pg))
	paymentService := payments.NewService(payments.NewRepository(pg), couponService, notificationService)
	chatService := chat.NewService(chat.NewRepository(pg), hub, notificationService)
	analyticsService := analytics.NewService(analytics.NewRepository(pg))

	// Health endpoints stay outside the versioned prefix
	engine.GET("/health", healthHandler(deps.DB))

	api := engine.Group(cfg.GetAPIBasePath())
	{
		auth.NewRouter(auth.NewController(authService)).SetupRoutes(api)
		exhibitions.NewRouter(exhibitions.NewController(exhibitionService), cfg).SetupRoutes(api)
		stalls.NewRouter(stalls.NewController(stallService), cfg).SetupRoutes(api)
		applications.NewRouter(applications.NewController(applicationService), cfg).SetupRoutes(api)
		payments.NewRouter(payments.NewController(paymentService), cfg).SetupRoutes(api)
		coupons.NewRouter(coupons.NewController(couponService), cfg).SetupRoutes(api)
		notifications.NewRouter(notifications.NewController(notificationService), cfg).SetupRoutes(api)
		chat.NewRouter(chat.NewController(chatService), cfg).SetupRoutes(api)
		analytics.NewRouter(analytics.NewController(analyticsService), cfg).SetupRoutes(api)
		realtime.NewRouter(realtime.NewController(hub), cfg).SetupRoutes(api)
	}

	return engine, hub
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsCfg.AllowCredentials = true
	corsCfg.MaxAge = 12 * time.Hour
	if cfg.IsDevelopment() {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	return corsCfg
}

func requestLogger() gin.HandlerFunc {
	log := logger.GetDefault()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.LogHTTPRequest(c, time.Since(start))
	}
}

func healthHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			response.RespondJSON(c, "error", http.StatusServiceUnavailable, "Service unhealthy", nil, err.Error())
			return
		}
		response.RespondJSON(c, "success", http.StatusOK, "Service healthy", gin.H{"time": time.Now().UTC()}, nil)
	}
}
