package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"vidbrief/internal/config"
	"vidbrief/internal/domain/services"
	"vidbrief/internal/infrastructure/cache"
	"vidbrief/internal/infrastructure/database"
	"vidbrief/internal/interfaces/http/handlers"
	"vidbrief/internal/ratelimit"
	"vidbrief/internal/summarizer"
	"vidbrief/internal/youtube"
)

func main() {
	cfg := config.Load()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	store := cache.NewRedisStore(redisClient)
	transcriptCache := cache.NewTranscriptCache(store)
	metadataCache := cache.NewMetadataCache(store)
	summaryCache := cache.NewSummaryCache(store)

	userRepo := database.NewUserRepository(db)
	usageRepo := database.NewUsageEventRepository(db)

	transcripts := youtube.NewTranscriptClient(youtube.TranscriptConfig{})
	metadata := youtube.NewMetadataClient(youtube.MetadataConfig{})

	chain := summarizer.NewChain([]summarizer.APIClient{
		summarizer.NewGeminiClient(cfg.AI.GeminiKey, cfg.AI.GeminiModel),
		summarizer.NewOpenAIClient(cfg.AI.OpenAIKey, cfg.AI.OpenAIModel),
	})

	quota := ratelimit.NewQuotaGate(usageRepo, cfg.Quota.Limits)

	summaryService := services.NewSummaryService(
		transcripts, metadata, chain, quota, usageRepo,
		transcriptCache, metadataCache, summaryCache,
	)

	jwtService := services.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.Expiration)*time.Second)
	authService := services.NewAuthService(userRepo, jwtService)
	billingService := services.NewBillingService(userRepo, cfg.Billing)

	router := handlers.NewRouter(
		jwtService,
		handlers.NewAuthHandler(authService),
		handlers.NewSummaryHandler(summaryService),
		handlers.NewBillingHandler(billingService),
		map[string]handlers.HealthCheck{
			"postgres": db.Health,
			"redis":    redisClient.Health,
		},
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 vidbrief listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	// handlers are drained; wait for the cache/usage writes they spawned
	summaryService.Drain()
	log.Println("Server stopped")
}
