package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"gymcore/internal/auth"
	"gymcore/internal/catalog"
	"gymcore/internal/config"
	"gymcore/internal/logger"
	"gymcore/internal/member"
	"gymcore/internal/metrics"
	"gymcore/internal/notify"
	"gymcore/internal/registration"
	"gymcore/internal/trainer"
	"gymcore/internal/workflow"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	db         *sqlx.DB
	config     *config.Config
	notify     *notify.Service
}

func New(db *sqlx.DB, cfg *config.Config, redisClient *redis.Client, notifyService *notify.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	memberRepo := member.NewRepository(db)
	memberService := member.NewService(memberRepo, cfg.JWTSecret)
	memberHandler := member.NewHandler(memberService)

	catalogRepo := catalog.NewRepository(db)
	catalogHandler := catalog.NewHandler(db)

	trainerRepo := trainer.NewRepository(db)
	trainerHandler := trainer.NewHandler(db)

	registrationRepo := registration.NewRepository(db)
	go refreshRegistrationGauges(registrationRepo)
	ledgerNotifier := notify.NewLedgerNotifier(notifyService, memberRepo, registrationRepo)
	registrationService := registration.NewService(registrationRepo, ledgerNotifier)
	registrationHandler := registration.NewHandler(registrationService, catalogRepo)

	workflowStore := workflow.NewRedisStore(redisClient)
	workflowHandler := workflow.NewHandler(
		workflowStore,
		trainerRepo,
		trainerRepo,
		registrationService,
		ledgerNotifier,
		registrationService,
	)

	public := router.Group("/auth")
	{
		public.POST("/register", memberHandler.Register)
		public.POST("/login", memberHandler.Login)
		public.POST("/refresh", memberHandler.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/members/me", memberHandler.Me)

		protected.GET("/packages", catalogHandler.ListPackages)

		protected.GET("/trainers", trainerHandler.ListTrainers)
		protected.GET("/trainers/:trainerID/availability", trainerHandler.GetAvailability)

		protected.POST("/registrations/evaluate", registrationHandler.Evaluate)
		protected.POST("/registrations", registrationHandler.Create)
		protected.GET("/registrations", registrationHandler.ListMy)
		protected.GET("/registrations/current", registrationHandler.GetCurrent)

		wf := protected.Group("/workflow/:registrationID")
		{
			wf.GET("", workflowHandler.Status)
			wf.POST("/trainer", workflowHandler.SelectTrainer)
			wf.POST("/schedule", workflowHandler.GenerateSchedule)
			wf.POST("/confirm", workflowHandler.ConfirmSchedule)
			wf.POST("/complete", workflowHandler.Complete)
			wf.POST("/reset", workflowHandler.Reset)
			wf.POST("/back", workflowHandler.Back)
		}
	}

	adminMiddleware := auth.RequireRole(member.RoleAdmin)
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("/members", memberHandler.List)
		admin.GET("/members/:memberID/registrations", registrationHandler.ListByMember)

		admin.GET("/packages", catalogHandler.ListAllPackages)
		admin.POST("/packages", catalogHandler.CreatePackage)
		admin.PUT("/packages/:packageID", catalogHandler.UpdatePackage)
		admin.DELETE("/packages/:packageID", catalogHandler.DeactivatePackage)

		admin.POST("/trainers", trainerHandler.CreateTrainer)
		admin.PUT("/trainers/:trainerID/availability", trainerHandler.ReplaceAvailability)

		admin.POST("/registrations/:registrationID/pause", registrationHandler.Pause)
		admin.POST("/registrations/:registrationID/reactivate", registrationHandler.Reactivate)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-notification", TestNotification(notifyService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		notify: notifyService,
	}
}

func (s *Server) Start(port string) error {
	s.httpServer = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

// refreshRegistrationGauges republishes registration counts by status once a minute.
func refreshRegistrationGauges(repo registration.Repository) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		counts, err := repo.CountByStatus(ctx)
		cancel()
		if err != nil {
			logger.Errorf("Failed to refresh registration gauges: %v", err)
			continue
		}
		for status, count := range counts {
			metrics.SetActiveRegistrations(status, float64(count))
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
