package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"b2b-print-designer/auth"
	"b2b-print-designer/internal/cart"
	"b2b-print-designer/internal/config"
	"b2b-print-designer/internal/db"
	"b2b-print-designer/internal/draft"
	"b2b-print-designer/internal/middleware"
	"b2b-print-designer/internal/org"
	"b2b-print-designer/internal/proofstore"
	"b2b-print-designer/internal/render"
	"b2b-print-designer/internal/template"
	"b2b-print-designer/internal/user"
	"b2b-print-designer/internal/worker"
	"b2b-print-designer/redis"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("error connecting to db %v", err)
	}
	defer db.Close(database)

	// Migrate database schema
	db.Migrate(database)

	// Seed database with initial data (for development)
	if cfg.Environment == "development" {
		db.SeedData(database)
	}

	// Initialize Redis-backed catalog cache
	cache := redis.NewCache(cfg.RedisAddress)

	// Shared infrastructure
	tokens := auth.NewManager(cfg.JWTSecret)
	store := proofstore.NewStore(cfg.UploadDir, cfg.UploadBaseURL)
	fonts := render.NewFontCache(cfg.FontDir)
	pool := worker.NewWorkerPoolDepth(cfg.WorkerCount, cfg.WorkerQueueDepth)
	defer pool.Shutdown()

	// Initialize repositories
	userRepo := user.NewUserRepository(database)
	orgRepo := org.NewOrgRepository(database)
	templateRepo := template.NewRepository(database)
	draftRepo := draft.NewDraftRepository(database)
	cartSink := cart.NewGormSink(database)

	// Initialize services
	userService := user.NewService(userRepo, tokens)
	orgService := org.NewService(orgRepo, userRepo)
	templateService := template.NewService(templateRepo, orgService, cache)
	draftService := draft.NewService(draftRepo, templateService, orgService, store, fonts, cartSink, pool)

	// Initialize handlers
	userHandler := user.NewHandler(userService)
	orgHandler := org.NewHandler(orgService)
	templateHandler := template.NewHandler(templateService, store)
	draftHandler := draft.NewHandler(draftService)

	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.ErrorHandler())

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}
	if cfg.Environment == "development" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	authGuard := middleware.Auth{Tokens: tokens, Users: userService}

	// Public routes
	router.POST("/register", userHandler.Register)
	router.POST("/login", userHandler.Login)

	// Proof artifacts are publicly fetchable once saved
	router.Static("/uploads", cfg.UploadDir)

	// Authenticated routes
	authed := router.Group("/", authGuard.AuthMiddleWare())
	authed.GET("/profile", userHandler.GetProfile)
	authed.GET("/templates", templateHandler.List)
	authed.GET("/templates/:id", templateHandler.Show)
	authed.POST("/drafts", draftHandler.Create)
	authed.GET("/drafts/:id", draftHandler.Show)
	authed.POST("/drafts/:id/proof", draftHandler.SaveProof)
	authed.PUT("/drafts/:id/qty", draftHandler.UpdateQty)
	authed.PUT("/drafts/:id/template", draftHandler.SwitchTemplate)
	authed.POST("/drafts/:id/employee-ready", draftHandler.MarkEmployeeReady)
	authed.POST("/drafts/:id/admin-ready", draftHandler.MarkAdminReady)
	authed.PUT("/drafts/:id/override", draftHandler.SetOverride)
	authed.POST("/drafts/:id/cart", draftHandler.AttachToCart)
	authed.GET("/drafts/:id/cart", draftHandler.CartLines)
	authed.POST("/drafts/:id/duplicate", draftHandler.Duplicate)

	// Org admin routes
	orgAdmin := router.Group("/org", authGuard.AuthMiddleWare(), authGuard.RequireOrgAdmin())
	orgAdmin.GET("/members", orgHandler.Members)
	orgAdmin.POST("/members/:id/approve", orgHandler.ApproveMember)
	orgAdmin.POST("/members/:id/unapprove", orgHandler.UnapproveMember)
	orgAdmin.PUT("/members/:id/role", orgHandler.SetMemberRole)
	orgAdmin.GET("/drafts", draftHandler.ListOrgDrafts)

	// Site admin routes
	admin := router.Group("/admin", authGuard.AuthMiddleWare(), authGuard.RequireBypass())
	admin.GET("/orgs", orgHandler.List)
	admin.POST("/orgs", orgHandler.Create)
	admin.GET("/orgs/:id", orgHandler.Show)
	admin.PUT("/orgs/:id", orgHandler.Update)
	admin.POST("/templates", templateHandler.Create)
	admin.PUT("/templates/:id", templateHandler.Update)
	admin.GET("/templates/:id/layout", templateHandler.Layout)
	admin.POST("/templates/art", templateHandler.UploadArt)
	admin.POST("/templates/convert-box", templateHandler.ConvertBox)

	// Server configuration
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Printf("Server listening on port %s", cfg.ServerPort)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("Server shutdown error:", err)
	}
}
