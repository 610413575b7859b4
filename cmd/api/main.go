package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/keeper-games/last-algorithm/internal/config"
	"github.com/keeper-games/last-algorithm/internal/handlers"
	"github.com/keeper-games/last-algorithm/internal/logger"
	"github.com/keeper-games/last-algorithm/internal/middleware"
	"github.com/keeper-games/last-algorithm/internal/services"
	"github.com/keeper-games/last-algorithm/pkg/engine"
	"github.com/keeper-games/last-algorithm/pkg/scene"
	"github.com/keeper-games/last-algorithm/pkg/state"
)

func main() {
	// Local development convenience. Missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting The Last Algorithm API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"dialogue_model", cfg.DialogueModel,
		"supervisor_model", cfg.SupervisorModel)

	store, err := services.NewRedisSessionStore(cfg.RedisURL, cfg.SessionTTL, log)
	if err != nil {
		log.Error("Failed to configure session store", "error", err)
		os.Exit(1)
	}

	storeCtx, storeCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storeCancel()
	if err := store.WaitForConnection(storeCtx); err != nil {
		log.Error("Failed to connect to session store", "error", err)
		os.Exit(1)
	}
	log.Info("Session store connection established")

	gen := services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.DialogueModel, cfg.SupervisorModel, log)

	catalog := scene.NewCatalog()
	supervisor := engine.NewSupervisor(catalog, state.NewTransitioner(catalog), gen, log)
	router := engine.NewRouter(supervisor, gen, log)

	mux := http.NewServeMux()

	mux.Handle("/health", handlers.NewHealthHandler(store, log))

	sessionHandler := handlers.NewSessionHandler(store, log)
	mux.Handle("/api/session", sessionHandler)
	mux.Handle("/api/session/", sessionHandler)

	mux.Handle("/api/player-action", handlers.NewTurnHandler(store, router, log))

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing session store", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
