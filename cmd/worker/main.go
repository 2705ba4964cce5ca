package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MohammadTashkandi/task-manager-app/internal/api"
	"github.com/MohammadTashkandi/task-manager-app/internal/notify"
	"github.com/MohammadTashkandi/task-manager-app/internal/worker"
)

func main() {
	godotenv.Load(".env.dev")

	api.SetupGlobalLogger("notification-worker")

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		log.Fatal("NATS_URL environment variable is not set")
	}

	if os.Getenv("SENDGRID_API_KEY") == "" {
		log.Fatal("SENDGRID_API_KEY environment variable is not set")
	}

	mailer := notify.NewSendGridMailer()

	w, err := worker.Start(natsURL, mailer)
	if err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}
	defer w.Close()

	slog.Info("Notification worker started, waiting for events")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down notification worker")
}
