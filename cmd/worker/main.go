package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"cryptovibe/internal/config"
	"cryptovibe/internal/queue"
)

// Consumes auth events from RabbitMQ and appends them to EVENT_LOG_PATH.
func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := queue.NewConsumer(cfg.RabbitMQURL, cfg.EventLogPath)
	log.Printf("auth-consumer: consuming %q into %s", consumer.Queue, consumer.LogPath)

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("auth-consumer: %v", err)
	}
	log.Println("auth-consumer: stopped")
}
