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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/contacts-api/internal/config"
	"github.com/harentsoaR/contacts-api/internal/handlers"
	"github.com/harentsoaR/contacts-api/internal/middleware"
	"github.com/harentsoaR/contacts-api/internal/services"
	"github.com/harentsoaR/contacts-api/internal/storage"
	"github.com/harentsoaR/contacts-api/internal/storage/gormstore"
	"github.com/harentsoaR/contacts-api/internal/storage/jsonfile"
	"github.com/harentsoaR/contacts-api/internal/storage/mongostore"
	"github.com/harentsoaR/contacts-api/internal/uploads"
	"github.com/harentsoaR/contacts-api/internal/utils"
)

func main() {
	cfg, envLoaded, err := config.Load()
	if !envLoaded {
		log.Println("No .env file found, relying on environment variables.")
	}
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Printf("API_PORT: %s", cfg.Port)
	log.Printf("STORAGE_BACKEND: %s", cfg.StorageBackend)
	log.Println("JWT_SECRET is SET.")

	// --- Storage ---
	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close(context.Background())

	photos, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	// --- Services ---
	tokens, err := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatalf("Failed to configure tokens: %v", err)
	}
	identity := services.NewIdentityService(store, tokens, cfg.BcryptCost)
	contacts := services.NewContactService(store, photos)

	h := handlers.NewHandler(identity, contacts, photos, store)

	// --- Gin Router ---
	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadMemory

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	r.Use(cors.New(corsCfg))

	h.RegisterRoutes(r, middleware.AuthMiddleware(identity))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendMongo:
		return mongostore.Connect(context.Background(), cfg.MongoURI, cfg.MongoDatabase)
	case config.BackendPostgres:
		return gormstore.Open(cfg.PostgresDSN)
	default:
		return jsonfile.New(cfg.DataDir)
	}
}
