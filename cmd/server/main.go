package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anxmeshhh/PrepIQ/internal/catalog"
	"github.com/anxmeshhh/PrepIQ/internal/config"
	"github.com/anxmeshhh/PrepIQ/internal/repository"
	"github.com/anxmeshhh/PrepIQ/internal/service"
	"github.com/anxmeshhh/PrepIQ/internal/speech"
	"github.com/anxmeshhh/PrepIQ/internal/store"
	"github.com/anxmeshhh/PrepIQ/internal/transport/rest"
	"github.com/anxmeshhh/PrepIQ/internal/transport/ws"
)

func main() {
	log.Println("started")
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	log.Printf("AI Config:")
	log.Printf("  Question: %s", cfg.AI.Models.Question)
	log.Printf("  Eval:     %s", cfg.AI.Models.Eval)
	if cfg.AI.IsEnabled() {
		log.Println("  API Key:  configured")
	} else {
		log.Println("  API Key:  NOT SET (using mock question generator and neutral evaluations)")
	}

	// Domain catalog with optional YAML overlay
	cat := catalog.New()
	if path := os.Getenv("DOMAIN_CATALOG_FILE"); path != "" {
		if err := cat.LoadFile(path); err != nil {
			log.Fatal("Failed to load domain catalog:", err)
		}
		log.Printf("domain catalog overlay loaded from %s", path)
	}

	// Session store: Redis when configured, in-memory otherwise
	var sessions store.Store
	var memStore *store.MemoryStore
	if cfg.Store.RedisURI != "" {
		redisAddr := strings.TrimPrefix(cfg.Store.RedisURI, "redis://")
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		log.Println("Connected to Redis")
		sessions = store.NewRedisStore(rdb, cfg.Store.SessionTTL)
	} else {
		memStore = store.NewMemoryStore(cfg.Store.SessionTTL)
		memStore.Start(ctx, cfg.Store.SweepInterval)
		sessions = memStore
		log.Println("Using in-memory session store")
	}

	// Completed-interview archive is optional
	var archive repository.ArchiveRepo
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer mongoClient.Disconnect(context.Background())

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			cancel()
			log.Fatal("Failed to ping MongoDB:", err)
		}
		cancel()
		log.Println("Connected to MongoDB")

		archive = repository.NewArchiveRepo(mongoClient.Database("prepiq"))
	} else {
		log.Println("MONGO_URI not set, interview archive disabled")
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Speech collaborators
	tts := speech.NewGoogleTTS(cfg.Speech)
	var stt speech.Transcriber
	if cfg.Speech.STTAPIKey != "" {
		stt = speech.NewGoogleSTT(cfg.Speech)
	} else {
		log.Println("STT_API_KEY not set, transcription uses placeholder text")
	}

	// Initialize services
	gen := service.NewGeminiGenerator(cfg.AI)
	authSvc := service.NewAuthService()
	questionSvc := service.NewQuestionService(cfg.AI, cat, gen)
	evaluatorSvc := service.NewEvaluatorService(cfg.AI, cat, gen)
	reportSvc := service.NewReportService(cat)
	interviewSvc := service.NewInterviewService(cfg.Interview, sessions, archive, questionSvc, evaluatorSvc, reportSvc, tts, wsHub)

	// An evicted session must not fire a queued question, keep its
	// socket open or leave its lock entry behind
	if memStore != nil {
		memStore.OnEvict(interviewSvc.HandleEviction)
	}

	container := &rest.Container{
		AuthService:      authSvc,
		InterviewService: interviewSvc,
		Catalog:          cat,
		Transcriber:      stt,
		TotalQuestions:   cfg.Interview.TotalQuestions,
		WSHub:            wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Server.Port)
		log.Println("Endpoints:")
		log.Println("  GET  /v1/domains")
		log.Println("  POST /v1/interviews")
		log.Println("  POST /v1/interviews/{id}/responses")
		log.Println("  POST /v1/interviews/{id}/end")
		log.Println("  GET  /v1/interviews/{id}/report")
		log.Println("  WS   /v1/ws/interviews/{id}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
