package routes

import (
	"learnpath/backend/cache"
	"learnpath/backend/config"
	"learnpath/backend/controllers"
	"learnpath/backend/llm"
	"learnpath/backend/middleware"
	"learnpath/backend/services"
	"learnpath/backend/store"
	"learnpath/backend/utils"
	"learnpath/backend/youtube"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the collaborators the HTTP layer is built from. Completer,
// Searcher and VideoCache are optional; leave them nil to run those integrations in
// demo mode or uncached.
type Dependencies struct {
	Store      store.Store
	Cfg        *config.Config
	Log        *utils.Logger
	Completer  llm.Completer
	Searcher   youtube.Searcher
	VideoCache cache.VideoCache
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	cfg, log := deps.Cfg, deps.Log

	roadmaps := services.NewRoadmapService(cfg.OpenAI, deps.Completer, cfg.ProviderTimeout, log)
	videos := services.NewVideoService(cfg.YouTube, deps.Searcher, deps.VideoCache, cfg.ProviderTimeout, log)
	enricher := services.NewEnricher(videos, cfg.EnrichConcurrency)
	chat := services.NewChatService(cfg.OpenAI, deps.Completer, cfg.ProviderTimeout, log)

	healthController := controllers.NewHealthController(deps.Store, roadmaps, videos)
	app.Get("/health", healthController.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Roadmap routes
	roadmapController := controllers.NewRoadmapController(deps.Store, cfg, roadmaps, enricher, log)
	api.Post("/roadmap/generate", roadmapController.Generate)
	api.Post("/roadmap/enrich", roadmapController.Enrich)
	api.Get("/roadmap/:slug", roadmapController.GetBySlug)

	videosController := controllers.NewVideosController(videos)
	api.Get("/videos/search", videosController.Search)

	chatController := controllers.NewChatController(chat)
	api.Post("/chat", chatController.Reply)

	catalogueController := controllers.NewCatalogueController(deps.Store)
	api.Get("/courses", catalogueController.SearchCourses)

	// Auth routes
	authController := controllers.NewAuthController(services.NewAuthService(deps.Store, cfg.JWTSecret, cfg.JWTTTL, log))
	api.Post("/auth/register", authController.Register)
	api.Post("/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(cfg)

	api.Get("/auth/me", authMiddleware, authController.Me)

	// Profile routes
	profileController := controllers.NewProfileController(deps.Store, services.NewProfileService(deps.Store))
	api.Post("/profile", authMiddleware, profileController.UpdateProfile)
	api.Get("/profile/:email", authMiddleware, profileController.GetProfile)

	// Progress routes
	progressController := controllers.NewProgressController(deps.Store, services.NewProgressService(deps.Store))
	api.Get("/progress", authMiddleware, progressController.GetProgress)
	api.Post("/progress", authMiddleware, progressController.UpdateProgress)

	// Admin routes
	adminController := controllers.NewAdminController(deps.Store)
	admin := api.Group("/admin", authMiddleware, adminMiddleware, adminController.RequireDurable)
	admin.Get("/roadmaps", adminController.ListRoadmaps)
	admin.Post("/roadmaps/:id/approve", adminController.ApproveRoadmap)
}
