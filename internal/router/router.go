package router

import (
	"time"

	"github.com/Ramandaygy/tutor-app/internal/config"
	"github.com/Ramandaygy/tutor-app/internal/handler"
	"github.com/Ramandaygy/tutor-app/internal/middleware"
	"github.com/Ramandaygy/tutor-app/internal/response"
	"github.com/Ramandaygy/tutor-app/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Tryout  *handler.TryoutHandler
	Attempt *handler.AttemptHandler
	WS      *handler.WSHandler
	Health  *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", handlers.Health.Health)

	// Rate limiter for attempt starts (30 per minute per IP) keeps
	// access-code guessing slow.
	startLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Portal Group (Student JWT) ─────────────────────────────────
	portalAPI := router.Group("/api/v1/portal")
	portalAPI.Use(middleware.RequireStudentJWT(authService))
	{
		portalAPI.GET("/tryouts", handlers.Tryout.ListTryouts)
		portalAPI.GET("/tryouts/:tryout_id", handlers.Tryout.GetTryout)
		portalAPI.POST("/tryouts/:tryout_id/start",
			startLimiter.Middleware(),
			handlers.Attempt.StartAttempt,
		)

		portalAPI.GET("/attempts", handlers.Attempt.ListMyAttempts)
		portalAPI.GET("/attempts/active", handlers.Attempt.GetActiveAttempt)
		portalAPI.GET("/attempts/:attempt_id/paper", handlers.Attempt.GetPaper)
		portalAPI.GET("/attempts/:attempt_id/state", handlers.Attempt.GetState)
		portalAPI.POST("/attempts/:attempt_id/goto", handlers.Attempt.GoTo)
		portalAPI.POST("/attempts/:attempt_id/next", handlers.Attempt.Next)
		portalAPI.POST("/attempts/:attempt_id/prev", handlers.Attempt.Prev)
		portalAPI.POST("/attempts/:attempt_id/mark", handlers.Attempt.ToggleMark)
		portalAPI.POST("/attempts/:attempt_id/answer", handlers.Attempt.SubmitAnswer)
		portalAPI.POST("/attempts/:attempt_id/finish", handlers.Attempt.Finish)
		portalAPI.GET("/attempts/:attempt_id/result", handlers.Attempt.GetResult)
		portalAPI.GET("/attempts/:attempt_id/review", handlers.Attempt.GetReview)
	}

	// ─── 2. WebSocket Group (Student WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStudentWSAuth(authService))
	{
		ws.GET("/portal/attempts/:attempt_id/stream", handlers.WS.AttemptStream)
	}

	return router
}
