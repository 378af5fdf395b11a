package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/gamepulse/randomwatch/internal/config"
	"github.com/gamepulse/randomwatch/internal/handlers"
	"github.com/gamepulse/randomwatch/internal/logger"
	"github.com/gamepulse/randomwatch/internal/middleware"
	"github.com/gamepulse/randomwatch/internal/services/queue"
	"github.com/gamepulse/randomwatch/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Randomwatch API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"redis_addr", cfg.RedisAddr)

	store := storage.NewRedisStorage(cfg.RedisAddr, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	queueClient, err := queue.NewClient(cfg.RedisAddr, log)
	if err != nil {
		log.Error("Failed to create queue client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing queue client", "error", err)
		}
	}()

	eventQueue := queue.NewEventQueue(queueClient)

	// Dedicated client for SSE pub/sub subscriptions
	// (separate from queue client to avoid connection conflicts)
	subClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer func() {
		if err := subClient.Close(); err != nil {
			log.Error("Error closing pub/sub client", "error", err)
		}
	}()

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	sessionsHandler := handlers.NewSessionsHandler(store, log)
	mux.Handle("/v1/sessions", sessionsHandler)
	mux.Handle("/v1/sessions/", sessionsHandler)

	eventsHandler := handlers.NewEventsHandler(eventQueue, store, log)
	mux.Handle("/v1/events", eventsHandler)

	streamHandler := handlers.NewStreamHandler(subClient, log)
	mux.Handle("/v1/notifications/sessions/", streamHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout omitted so SSE streams stay open
		IdleTimeout: 60 * time.Second,
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
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
