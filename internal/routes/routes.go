package routes

import (
	"net/http"

	"library-nexus/internal/config"
	"library-nexus/internal/delivery/http/handler"
	"library-nexus/internal/infrastructure/database/postgres"
	"library-nexus/internal/logger"
	"library-nexus/internal/middleware"
	"library-nexus/internal/usecase/book"
	"library-nexus/internal/usecase/circulation"
	"library-nexus/internal/usecase/dashboard"
	"library-nexus/internal/usecase/digital"
	"library-nexus/internal/usecase/magazine"
	"library-nexus/internal/usecase/user"
	"library-nexus/pkg/storage"

	"github.com/gin-gonic/gin"
)

// Services bundles the wired use cases so main can run startup tasks.
type Services struct {
	User        *user.Service
	Circulation *circulation.Service
}

func SetupRoutes(cfg *config.Config, db *postgres.DB, vault *storage.Vault) (*gin.Engine, *Services) {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	userRepository := postgres.NewUserRepository(db)
	tokenRepository := postgres.NewTokenRepository(db)
	bookRepository := postgres.NewBookRepository(db)
	loanRepository := postgres.NewCirculationRepository(db)
	digitalRepository := postgres.NewDigitalRepository(db)
	magazineRepository := postgres.NewMagazineRepository(db)

	userService := user.NewService(userRepository, tokenRepository, loanRepository, cfg)
	bookService := book.NewService(bookRepository)
	circulationService := circulation.NewService(loanRepository, bookRepository, userRepository, cfg)
	digitalService := digital.NewService(digitalRepository, bookRepository, userRepository, vault, digital.NewDownloadTracker())
	magazineService := magazine.NewService(magazineRepository, vault)
	dashboardService := dashboard.NewService(bookRepository, loanRepository, userRepository, digitalRepository)

	userHandler := handler.NewUserHandler(userService)
	bookHandler := handler.NewBookHandler(bookService)
	circulationHandler := handler.NewCirculationHandler(circulationService)
	digitalHandler := handler.NewDigitalHandler(digitalService)
	magazineHandler := handler.NewMagazineHandler(magazineService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	api := router.Group("/api")
	{
		userHandler.RegisterPublicRoutes(api)

		// Catalog browsing is public; a valid token just identifies the
		// reader for download counting.
		public := api.Group("")
		public.Use(middleware.OptionalAuthMiddleware(cfg))
		{
			bookHandler.RegisterPublicRoutes(public)
			digitalHandler.RegisterPublicRoutes(public)
			magazineHandler.RegisterPublicRoutes(public)
			dashboardHandler.RegisterPublicRoutes(public)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			userHandler.RegisterProfileRoutes(protected)
			dashboardHandler.RegisterRoutes(protected)

			staff := protected.Group("")
			staff.Use(middleware.LibrarianOrAdmin())
			{
				bookHandler.RegisterStaffRoutes(staff)
				circulationHandler.RegisterStaffRoutes(staff)
				digitalHandler.RegisterStaffRoutes(staff)
				magazineHandler.RegisterStaffRoutes(staff)
			}

			admin := protected.Group("")
			admin.Use(middleware.AdminOnly())
			{
				userHandler.RegisterAdminRoutes(admin)
				bookHandler.RegisterAdminRoutes(admin)
				digitalHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")

	return router, &Services{
		User:        userService,
		Circulation: circulationService,
	}
}
