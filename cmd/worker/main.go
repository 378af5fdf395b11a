package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/gamepulse/randomwatch/internal/config"
	"github.com/gamepulse/randomwatch/internal/logger"
	"github.com/gamepulse/randomwatch/internal/services/queue"
	"github.com/gamepulse/randomwatch/internal/storage"
	"github.com/gamepulse/randomwatch/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Randomwatch Worker",
		"environment", cfg.Environment,
		"redis_addr", cfg.RedisAddr)

	// Initialize queue service
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
	log.Info("Queue service initialized successfully")

	// Initialize storage service
	store := storage.NewRedisStorage(cfg.RedisAddr, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage service initialized successfully")

	// Create a separate Redis client for session locking and pub/sub
	// (separate from queue client to avoid connection conflicts)
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis client", "error", err)
		}
	}()

	log.Info("Redis connection established successfully")

	w := worker.New(eventQueue, store, redisClient, log, cfg.WorkerID)

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("Worker started, waiting for events...")

	<-quit
	log.Info("Worker shutdown signal received")

	w.Stop()

	// Give the worker time to finish the current envelope
	time.Sleep(2 * time.Second)

	log.Info("Worker exited")
}
