package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"exhibae/api/routes"
	"exhibae/internal/notifications"
	"exhibae/internal/shared/config"
	"exhibae/internal/shared/database"
	"exhibae/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.New()
	logger.SetDefault(log)

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Error("failed to initialize databases", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Notification pipeline: producer feeds Kafka, consumer workers
	// drain it into the email dispatcher. A missing broker downgrades
	// email delivery, never the API.
	var producer notifications.Producer
	producer, err = notifications.NewProducer(cfg)
	if err != nil {
		log.Warn("kafka unavailable, email notifications disabled", "error", err)
		producer = notifications.NoopProducer{}
	}
	defer producer.Close()

	var consumer *notifications.Consumer
	if _, isNoop := producer.(notifications.NoopProducer); !isNoop {
		dispatcher := notifications.NewDispatcher(cfg)
		consumer, err = notifications.NewConsumer(cfg, dispatcher)
		if err != nil {
			log.Warn("failed to start notification consumer", "error", err)
		} else {
			consumer.Start(context.Background())
		}
	}

	engine, _ := routes.Setup(&routes.Dependencies{
		Config:   cfg,
		DB:       db,
		Producer: producer,
	})

	server := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting", "addr", server.Addr, "mode", cfg.GinMode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", "error", err)
	}

	if consumer != nil {
		if err := consumer.Stop(); err != nil {
			log.Warn("failed to stop notification consumer", "error", err)
		}
	}

	log.Info("server stopped")
}
