package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cryptovibe/docs"

	"github.com/labstack/echo/v4"

	"cryptovibe/internal/auth"
	"cryptovibe/internal/cache"
	"cryptovibe/internal/config"
	"cryptovibe/internal/db"
	"cryptovibe/internal/handler"
	"cryptovibe/internal/llm"
	"cryptovibe/internal/queue"
	"cryptovibe/internal/repository"
	"cryptovibe/internal/router"
	"cryptovibe/internal/service"
	"cryptovibe/internal/solana"
)

// @title Crypto Vibe Trade API
// @version 1.0
// @description Trading companion API: session auth, per-user whiteboard, AI market analysis and Solana NFT checks.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true

	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if cfg.ResetDB {
		log.Println("RESET_DB=true detected, dropping all tables...")
		if err := db.Reset(gormDB); err != nil {
			log.Printf("Warning: reset failed: %v", err)
		}
		log.Println("Tables dropped")
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("%v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Printf("Warning: redis unavailable at %s, caching and rate limiting degrade to pass-through: %v", cfg.RedisAddr, err)
	}
	cancelPing()

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.EventsEnabled {
		events = queue.NewAMQPPublisher(cfg.RabbitMQURL)
		log.Printf("Publishing auth events to queue %q", queue.AuthEventsQueue)
	}
	defer events.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	sessionRepo := repository.NewSessionRepository(gormDB)
	whiteboardRepo := repository.NewWhiteboardRepository(gormDB)

	// Initialize external clients
	hasher := auth.NewPasswordHasher()
	grokClient := llm.NewGrokClient(cfg.XAIAPIKey, "", cfg.ProviderTimeout)
	geminiClient := llm.NewGeminiClient(cfg.GeminiAPIKey, "", cfg.ProviderTimeout)
	rpcClient := solana.NewClient(cfg.SolanaRPCURL, cfg.ProviderTimeout)

	// Initialize services
	authService := service.NewAuthService(userRepo, sessionRepo, hasher, events, cfg.SessionTTL)
	registrationService := service.NewRegistrationService(userRepo, hasher, events)
	userService := service.NewUserService(userRepo, sessionRepo, hasher, cacheClient)
	whiteboardService := service.NewWhiteboardService(whiteboardRepo)
	analysisService := service.NewAnalysisService(grokClient, geminiClient)
	nftService := service.NewNFTService(rpcClient, cacheClient)

	if cfg.AdminUsername != "" {
		created, err := userService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
		switch {
		case err != nil:
			log.Printf("Warning: admin bootstrap failed: %v", err)
		case created:
			log.Printf("Created admin user %q", cfg.AdminUsername)
		}
	}

	// Register routes
	router.Register(e, cfg, authService, cacheClient.Redis(), router.Handlers{
		Auth:       handler.NewAuthHandler(authService, registrationService),
		User:       handler.NewUserHandler(userService),
		Whiteboard: handler.NewWhiteboardHandler(whiteboardService),
		Analysis:   handler.NewAnalysisHandler(analysisService),
		NFT:        handler.NewNFTHandler(nftService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL(cfg.SwaggerHost))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// swaggerURL builds the docs URL; host may already include a scheme.
func swaggerURL(host string) string {
	switch {
	case host == "":
		// container listens on 8080, mapped to 5000 externally
		return "http://localhost:5000/swagger/index.html"
	case strings.HasPrefix(host, "http://"), strings.HasPrefix(host, "https://"):
		return host + "/swagger/index.html"
	default:
		return "http://" + host + "/swagger/index.html"
	}
}
