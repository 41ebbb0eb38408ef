package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/formforge/backend/internal/config"
	"github.com/formforge/backend/internal/middleware"
	"github.com/formforge/backend/pkg/database"
	"github.com/formforge/backend/pkg/storage"

	analyticsHttp "github.com/formforge/backend/internal/modules/analytics/delivery/http"
	analyticsRepo "github.com/formforge/backend/internal/modules/analytics/repository"
	analyticsService "github.com/formforge/backend/internal/modules/analytics/service"

	formHttp "github.com/formforge/backend/internal/modules/form/delivery/http"
	formRepo "github.com/formforge/backend/internal/modules/form/repository"
	formService "github.com/formforge/backend/internal/modules/form/service"

	searchService "github.com/formforge/backend/internal/modules/search/service"

	submissionHttp "github.com/formforge/backend/internal/modules/submission/delivery/http"
	submissionRepo "github.com/formforge/backend/internal/modules/submission/repository"
	submissionService "github.com/formforge/backend/internal/modules/submission/service"

	userHttp "github.com/formforge/backend/internal/modules/user/delivery/http"
	userRepo "github.com/formforge/backend/internal/modules/user/repository"
	userService "github.com/formforge/backend/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	engine *gin.Engine
	store  *database.Supervisor
}

// Deps carries the optional infrastructure clients. Any of them may be nil;
// the services they back degrade gracefully (no cache, no search, no avatars).
type Deps struct {
	Store       *database.Supervisor
	RedisClient *redis.Client
	MeiliClient meilisearch.ServiceManager
	Avatars     storage.AvatarStorage
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	users := userRepo.NewUserRepository(deps.Store)
	forms := formRepo.NewFormRepository(deps.Store)
	responses := submissionRepo.NewResponseRepository(deps.Store)
	aggs := analyticsRepo.NewAnalyticsRepository(deps.Store)

	searchSvc := searchService.NewSearchService(deps.MeiliClient)

	authSvc := userService.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL)
	profileSvc := userService.NewProfileService(users, deps.Avatars)
	authHandler := userHttp.NewAuthHandler(authSvc, profileSvc)

	formSvc := formService.NewFormService(forms, responses, searchSvc, deps.RedisClient)
	formHandler := formHttp.NewFormHandler(formSvc)

	submissionSvc := submissionService.NewSubmissionService(responses, forms, cfg.StrictSubmissions)
	submissionHandler := submissionHttp.NewSubmissionHandler(submissionSvc)

	analyticsSvc := analyticsService.NewAnalyticsService(forms, responses, aggs)
	analyticsHandler := analyticsHttp.NewAnalyticsHandler(analyticsSvc)

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		if !deps.Store.Ready() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":   http.StatusText(status),
			"database": deps.Store.State().String(),
		})
	})

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.PUT("/change-password", authMiddleware.RequireAuth(), authHandler.ChangePassword)
	}

	// The public form view is the only unauthenticated form route; the
	// single-response view is public so a submitter can see their confirmation.
	api.GET("/forms/public/:id", formHandler.GetPublicForm)
	api.GET("/responses/:id", submissionHandler.GetResponse)

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/profile/me", authHandler.Me)
		protected.PUT("/profile", authHandler.UpdateProfile)

		protected.POST("/forms", formHandler.CreateForm)
		protected.GET("/forms", formHandler.ListForms)
		protected.GET("/forms/search", formHandler.SearchForms)
		protected.GET("/forms/dashboard/stats", analyticsHandler.GetDashboard)
		protected.GET("/forms/management/overview", analyticsHandler.GetManagementOverview)
		protected.GET("/forms/:id", formHandler.GetForm)
		protected.PUT("/forms/:id", formHandler.UpdateForm)
		protected.DELETE("/forms/:id", formHandler.DeleteForm)
		protected.GET("/forms/:id/stats", formHandler.GetFormStats)
		protected.GET("/forms/:id/submissions", formHandler.ListSubmissions)
		protected.GET("/forms/:id/analytics", analyticsHandler.GetFormAnalytics)

		protected.POST("/responses", submissionHandler.Submit)
		protected.GET("/responses/all", submissionHandler.ListAllResponses)
		protected.GET("/responses/form/:formId", submissionHandler.ListFormResponses)
	}

	return &Server{
		engine: router,
		store:  deps.Store,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Engine exposes the router for httptest in integration tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:5173"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
