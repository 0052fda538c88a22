package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"repo-insight/internal/analysis"
	"repo-insight/internal/classifier"
	"repo-insight/internal/config"
	"repo-insight/internal/database"
	"repo-insight/internal/github"
	"repo-insight/internal/llm"
	"repo-insight/internal/queue"
	"repo-insight/internal/redis"
	"repo-insight/internal/status"
	"repo-insight/internal/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
	runner := analysis.NewDeepRunner(ghClient, classifier.New(ghClient), scorer, statuses, cfg.Analysis)

	// Create job handler
	handler := worker.NewJobHandler(db, runner, statuses)

	// Create consumer
	consumer := queue.NewConsumer(
		redisClient,
		cfg.Redis.QueueName,
		handler,
		cfg.Worker.Concurrency,
	)

	// Start consumer
	log.Printf("Starting worker with %d concurrent workers...", cfg.Worker.Concurrency)
	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker...")
	cancel()
	consumer.Stop()

	log.Println("Worker exited")
}
