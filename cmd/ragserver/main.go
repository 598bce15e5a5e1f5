package main

// @title           RAG Chatbot API
// @version         1.0
// @description     Retrieval-augmented chatbot API. Answers questions grounded in PDF documents stored in S3, with per-session conversation history.

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/biz-cto/rag-chatbot/internal/adapters/driven/auth"
	"github.com/biz-cto/rag-chatbot/internal/adapters/driven/bedrock"
	"github.com/biz-cto/rag-chatbot/internal/adapters/driven/docstore"
	"github.com/biz-cto/rag-chatbot/internal/adapters/driven/memory"
	"github.com/biz-cto/rag-chatbot/internal/adapters/driven/pdfextract"
	redisadapter "github.com/biz-cto/rag-chatbot/internal/adapters/driven/redis"
	"github.com/biz-cto/rag-chatbot/internal/adapters/driven/s3"
	"github.com/biz-cto/rag-chatbot/internal/adapters/driving/http"
	"github.com/biz-cto/rag-chatbot/internal/core/domain"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driving"
	"github.com/biz-cto/rag-chatbot/internal/core/services"
	"github.com/biz-cto/rag-chatbot/internal/worker"
)

var version = "dev"

func main() {
	setupLogging()

	log.Printf("rag-chatbot %s starting", version)

	// Configuration from environment
	port := getEnvInt("PORT", 8080)
	bucket := getEnv("S3_BUCKET_NAME", "")
	awsRegion := getEnv("AWS_REGION", "ap-northeast-2")
	redisURL := getEnv("REDIS_URL", "")
	jwtSecret := getEnv("JWT_SECRET", "development-secret-change-in-production")
	adminPassword := getEnv("ADMIN_PASSWORD", "")

	profile := domain.ModelProfile{
		Primary:   getEnv("PRIMARY_MODEL_ID", domain.DefaultModelProfile().Primary),
		Fallback:  getEnv("FALLBACK_MODEL_ID", "anthropic.claude-v2"),
		MaxTokens: getEnvInt("MAX_TOKENS", domain.DefaultModelProfile().MaxTokens),
	}
	chatOpts := services.ChatOptions{
		HistoryWindow: getEnvInt("HISTORY_WINDOW", 5),
		TopK:          getEnvInt("TOP_K", 3),
		Profile:       profile,
	}

	if bucket == "" {
		log.Fatal("S3_BUCKET_NAME is required")
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Conversation store (Redis if available, otherwise memory) =====
	var conversations driven.ConversationStore
	sessionBackend := "memory"
	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		conversations = redisadapter.NewConversationStore(redisClient)
		sessionBackend = "redis"
		log.Println("Using Redis conversation store")
	} else {
		conversations = memory.NewConversationStore(memory.Options{
			MaxSessions: getEnvInt("MAX_SESSIONS", 1000),
		}, slog.Default())
		log.Println("Using in-memory conversation store")
	}

	runtimeConfig := domain.NewRuntimeConfig(sessionBackend)

	// ===== Auth =====
	authAdapter := auth.NewAdapter(jwtSecret)
	passwordHash := ""
	if adminPassword != "" {
		hash, err := authAdapter.HashPassword(adminPassword)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		passwordHash = hash
	} else {
		log.Println("ADMIN_PASSWORD not set, admin endpoints disabled")
	}
	authService := services.NewAuthService(authAdapter, passwordHash, slog.Default())

	// ===== Answer pipeline =====
	// A wiring failure keeps the HTTP surface alive with a degraded
	// service instead of crash-looping.
	chatService, adminService, ingestWorker, err := buildPipeline(
		ctx, bucket, awsRegion, conversations, chatOpts, runtimeConfig)
	if err != nil {
		log.Printf("Pipeline setup failed, serving degraded: %v", err)
		chatService = services.NewDegradedChatService(slog.Default())
	}

	if ingestWorker != nil {
		if err := ingestWorker.Start(ctx); err != nil {
			log.Fatalf("Failed to start ingestion worker: %v", err)
		}
		defer ingestWorker.Stop()
	}

	log.Printf("Runtime config: session_backend=%s, documents=%t, embedding=%t, llm=%t",
		runtimeConfig.SessionBackend,
		runtimeConfig.DocumentsLoaded(),
		runtimeConfig.EmbeddingAvailable(),
		runtimeConfig.LLMAvailable())

	// ===== HTTP server =====
	cfg := http.Config{
		Host:           "0.0.0.0",
		Port:           port,
		Version:        version,
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
	server := http.NewServer(cfg, chatService, adminService, authService, runtimeConfig)

	log.Printf("API server starting on :%d", port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// buildPipeline wires ingestion, retrieval and generation. The initial
// document load runs synchronously so the first request already has
// context to ground on.
func buildPipeline(
	ctx context.Context,
	bucket, awsRegion string,
	conversations driven.ConversationStore,
	chatOpts services.ChatOptions,
	runtimeConfig *domain.RuntimeConfig,
) (driving.ChatService, driving.AdminService, *worker.Worker, error) {
	logger := slog.Default()

	blobs, err := s3.NewBlobStore(ctx, bucket, awsRegion)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("s3 setup: %w", err)
	}

	invoker, err := bedrock.NewRuntimeInvoker(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("bedrock setup: %w", err)
	}
	embedder := bedrock.NewEmbeddingClient(invoker, bedrock.DefaultEmbeddingConfig(), logger)
	llm := bedrock.NewChatClient(invoker, bedrock.DefaultChatConfig(), logger)
	runtimeConfig.SetLLMAvailable(true)

	store := docstore.NewStore(blobs, pdfextract.NewExtractor(logger), logger)
	if err := store.Load(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("initial document load: %w", err)
	}
	runtimeConfig.SetDocumentsLoaded(store.Count() > 0)
	log.Printf("Loaded %d document chunks from bucket %s", store.Count(), bucket)

	retriever := services.NewRetriever(ctx, store, embedder, logger)
	runtimeConfig.SetEmbeddingAvailable(retriever.Ready())

	ingestWorker := worker.New(worker.Config{
		Store:     store,
		Retriever: retriever,
		Runtime:   runtimeConfig,
		Logger:    logger,
		Interval:  time.Duration(getEnvInt("RELOAD_INTERVAL_MIN", 0)) * time.Minute,
	})

	chatService := services.NewChatService(retriever, llm, conversations, chatOpts, logger)
	adminService := services.NewAdminService(store, retriever, conversations, ingestWorker, logger)

	return chatService, adminService, ingestWorker, nil
}

func setupLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(getEnv("LOG_LEVEL", "info")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
