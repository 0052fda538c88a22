package main

import (
	"context"
	"log"
	"net/http"

	"repo-insight/internal/analysis"
	"repo-insight/internal/auth"
	"repo-insight/internal/classifier"
	"repo-insight/internal/config"
	"repo-insight/internal/database"
	"repo-insight/internal/github"
	internalHttp "repo-insight/internal/http"
	"repo-insight/internal/llm"
	"repo-insight/internal/queue"
	"repo-insight/internal/redis"
	"repo-insight/internal/status"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Connect to database
	log.Println("Connecting to database...")
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected successfully")

	// Connect to Redis
	log.Println("Connecting to Redis...")
	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected successfully")

	ghClient := github.NewClient(cfg.GitHub)
	scorer := llm.NewClient(cfg.LLM)
	statuses := analysis.NewStatusStore(status.NewRedisStore(redisClient), cfg.Analysis)
	publisher := queue.NewPublisher(redisClient, cfg.Redis.QueueName)
	analyzer := analysis.NewAnalyzer(ghClient, classifier.New(ghClient), scorer, statuses, publisher, cfg.Analysis)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret)
	authRegistry := auth.NewRegistry()
	authRegistry.InitializeProviders(cfg.Auth)

	h := internalHttp.NewHandler(db, ghClient, analyzer, publisher, jwtManager, authRegistry, cfg)

	log.Printf("Server starting on port %s...", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, h); err != nil {
		log.Fatal(err)
	}
}
