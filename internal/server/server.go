package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linkboard/internal/config"
	"linkboard/internal/guard"
	"linkboard/internal/handler"
	"linkboard/internal/middleware"
	"linkboard/internal/repository"
	"linkboard/internal/seed"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Apply migrations before GORM touches the schema
	migrateURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	m, err := migrate.New("file://"+cfg.MigrationsPath, migrateURL)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to init migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, fmt.Errorf("❌ failed to apply migrations: %w", err)
	}
	log.Println("✅ Migrations applied")

	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if cfg.SeedDemoData {
		if err := seed.Run(db); err != nil {
			return nil, fmt.Errorf("❌ failed to seed demo data: %w", err)
		}
		log.Println("✅ Demo data seeded")
	}

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	widgetRepo := repository.NewWidgetRepository(db)
	eventRepo := repository.NewEventRepository(db)
	systemRepo := repository.NewSystemRepository(db)

	// One guard instance for the process; handlers share it by reference
	clickGuard := guard.NewClickGuard(guard.DefaultClickWindow)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo)
	boardHandler := handler.NewBoardHandler(boardRepo, userRepo)
	widgetHandler := handler.NewWidgetHandler(widgetRepo, boardRepo)
	insightsHandler := handler.NewInsightsHandler(eventRepo, boardRepo, clickGuard)
	systemHandler := handler.NewSystemHandler(systemRepo, boardRepo)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		// Board routes
		api.GET("/board", boardHandler.GetAll)
		api.GET("/board/:board_id", boardHandler.GetByID)
		api.PUT("/board/:board_id", boardHandler.Update)
		api.PUT("/board/:board_id/meta", boardHandler.UpdateMeta)
		api.PUT("/board/:board_id/url", boardHandler.UpdateURL)
		api.PUT("/board/:board_id/identity", boardHandler.UpdateIdentity)

		// Widget routes
		api.GET("/board/:board_id/widgets", widgetHandler.GetWidgets)
		api.POST("/board/:board_id/widgets", widgetHandler.CreateWidget)
		api.PUT("/board/:board_id/widgets/sync", widgetHandler.SyncWidgets)
		api.PUT("/board/:board_id/widgets/:widget_id", widgetHandler.UpdateWidget)
		api.DELETE("/board/:board_id/widgets/:widget_id", widgetHandler.DeleteWidget)

		// Insights routes (with legacy analytics aliases)
		api.POST("/click/:card_id", insightsHandler.RecordClick)
		api.POST("/insights/view", insightsHandler.RecordView)
		api.GET("/insights/:board_id", insightsHandler.GetInsights)
		api.GET("/insights/:board_id/summary", insightsHandler.GetSummary)
		api.POST("/analytics/view", insightsHandler.RecordView)
		api.GET("/analytics/:board_id", insightsHandler.GetInsights)
		api.GET("/analytics/:board_id/summary", insightsHandler.GetSummary)

		// System routes
		api.GET("/system/routes", systemHandler.GetRoutes)
	}

	// Protected routes - require authentication
	authorized := r.Group("/api")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authorized.POST("/board", boardHandler.Create)
		authorized.GET("/board/mine", boardHandler.GetMine)
		authorized.GET("/board/:board_id/permissions", boardHandler.GetPermissions)
		authorized.PUT("/system/routes", systemHandler.UpdateRoutes)
		authorized.GET("/users/me", userHandler.GetMe)
		authorized.PUT("/users/me", userHandler.UpdateMe)
		authorized.GET("/users/me/preferences", userHandler.GetPreferences)
		authorized.PUT("/users/me/preferences", userHandler.UpdatePreferences)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
