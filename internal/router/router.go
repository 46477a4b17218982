package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/karirlab/arahkarir-backend/internal/config"
	"github.com/karirlab/arahkarir-backend/internal/handler"
	"github.com/karirlab/arahkarir-backend/internal/middleware"
	"github.com/karirlab/arahkarir-backend/internal/response"
	"github.com/karirlab/arahkarir-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth  *handler.AuthHandler
	Exam  *handler.ExamHandler
	Admin *handler.AdminHandler
	WS    *handler.WSHandler
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

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me", middleware.RequireUserJWT(authService), handlers.Auth.GetProfile)
	}

	// ─── 2. Exam Group (JWT) ───────────────────────────────────────────
	examAPI := router.Group("/api/v1")
	examAPI.Use(middleware.RequireUserJWT(authService))
	{
		examAPI.GET("/eligibility", handlers.Exam.GetEligibility)
		examAPI.POST("/exams", handlers.Exam.CreateExam)
		examAPI.GET("/exams/:exam_id/paper", handlers.Exam.GetExamPaper)
		examAPI.POST("/exams/:exam_id/answers", handlers.Exam.SubmitAnswer)
		examAPI.GET("/exams/:exam_id/completion", handlers.Exam.GetCompletion)
		examAPI.POST("/exams/:exam_id/finalize", handlers.Exam.FinalizeExam)
	}

	// ─── 3. WebSocket Group (WS Auth via ?token=) ──────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireUserWSAuth(authService))
	{
		ws.GET("/exams/:exam_id/stream", handlers.WS.ExamStream)
	}

	// ─── 4. Admin Group (JWT + Admin Claim) ────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.GET("/users/:user_id/limits", handlers.Admin.GetUserLimits)
		adminAPI.POST("/users/:user_id/clear-lock", handlers.Admin.ClearUserLock)
		adminAPI.POST("/exams/:exam_id/cancel", handlers.Admin.CancelExam)
	}

	return router
}
