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

	"github.com/gorilla/mux"
	"github.com/nexusmarket/storefront/internal/api"
	"github.com/nexusmarket/storefront/internal/assistant"
	"github.com/nexusmarket/storefront/internal/kv"
	"github.com/nexusmarket/storefront/internal/metrics"
	"github.com/nexusmarket/storefront/internal/models"
	"github.com/nexusmarket/storefront/internal/services"
	"github.com/nexusmarket/storefront/internal/session"
	"github.com/nexusmarket/storefront/pkg/config"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize OpenTelemetry metrics
	ctx := context.Background()
	appMetrics, meterProvider, err := metrics.InitMetrics(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down meter provider: %v", err)
		}
	}()

	// Initialize the key-value store backing the catalog and orders
	var store kv.Store
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		store = kv.NewMemoryStore(cfg.StoreLatency)
		log.Printf("Using in-memory store (latency: %s)", cfg.StoreLatency)
	default:
		mysqlStore, err := kv.NewMySQLStore(cfg.GetDSN(), cfg.OTELServiceName)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer mysqlStore.Close()
		store = mysqlStore
	}

	defaultUser := models.User{
		ID:    cfg.DefaultUserID,
		Name:  cfg.DefaultUserName,
		Email: cfg.DefaultUserEmail,
		Role:  cfg.DefaultUserRole,
	}

	// Initialize services
	sessions := session.NewManager(defaultUser)
	catalogService := services.NewCatalogService(store, appMetrics)
	orderService := services.NewOrderService(store, appMetrics)
	cartService := services.NewCartService(catalogService, orderService, appMetrics)
	profileService := services.NewProfileService(store, appMetrics, defaultUser)

	generator := assistant.NewGeminiClient(cfg.AssistantBaseURL, cfg.AssistantModel, cfg.AssistantAPIKey)
	assistantService := assistant.NewService(generator, appMetrics)

	// Initialize app
	app := api.NewApp(cfg, appMetrics, sessions, catalogService, orderService, cartService, profileService, assistantService)

	// Setup router
	router := mux.NewRouter()
	app.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.AppPort)
		log.Printf("OTLP endpoint: %s", cfg.OTELExporterOTLPEndpoint)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
