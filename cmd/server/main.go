package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MohammadTashkandi/task-manager-app/internal/api"
	"github.com/MohammadTashkandi/task-manager-app/internal/avatar"
	"github.com/MohammadTashkandi/task-manager-app/internal/events"
	"github.com/MohammadTashkandi/task-manager-app/internal/repository"
	"github.com/MohammadTashkandi/task-manager-app/internal/service"
	"github.com/MohammadTashkandi/task-manager-app/internal/tracing"
	_ "github.com/MohammadTashkandi/task-manager-app/migrations"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		fmt.Println("No .env.dev file found, reading from environment variables")
	}

	api.SetupGlobalLogger("task-service")

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	shutdownTracer, err := tracing.InitTracerProvider("task-service")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Error("Error shutting down tracer provider", "error", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations()
		return
	}

	db := connectDB()
	defer db.Close()

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}
	publisher, err := events.NewNatsPublisher(natsURL)
	if err != nil {
		slog.Warn("Could not connect to NATS, account notifications are disabled", "error", err)
		publisher = events.NoopPublisher{}
	}

	userRepo := repository.NewPostgresUserRepository(db)
	tokenRepo := repository.NewPostgresTokenRepository(db)
	taskRepo := repository.NewPostgresTaskRepository(db)

	avatarStore, err := newAvatarStore(db)
	if err != nil {
		log.Fatalf("Failed to initialize avatar store: %v", err)
	}

	authService := service.NewAuthService(userRepo, tokenRepo, publisher)
	userService := service.NewUserService(userRepo, avatarStore, publisher)
	taskService := service.NewTaskService(taskRepo)

	userHandler := api.NewUserHandler(authService, userService)
	taskHandler := api.NewTaskHandler(taskService)

	app := fiber.New(fiber.Config{
		BodyLimit: 2 * 1024 * 1024,
	})
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "task-service"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// The two unauthenticated routes are the only ones worth brute-forcing.
	authLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	})

	authMiddleware := api.AuthMiddleware(authService)

	app.Post("/users", authLimiter, userHandler.Register)
	app.Post("/users/login", authLimiter, userHandler.Login)
	app.Post("/users/logout", authMiddleware, userHandler.Logout)
	app.Post("/users/logoutAll", authMiddleware, userHandler.LogoutAll)
	app.Get("/users/me", authMiddleware, userHandler.GetProfile)
	app.Patch("/users/me", authMiddleware, userHandler.UpdateProfile)
	app.Delete("/users/me", authMiddleware, userHandler.DeleteAccount)
	app.Post("/users/me/avatar", authMiddleware, userHandler.UploadAvatar)
	app.Delete("/users/me/avatar", authMiddleware, userHandler.DeleteAvatar)
	app.Get("/users/:id/avatar", authMiddleware, userHandler.GetAvatar)

	app.Post("/tasks", authMiddleware, taskHandler.Create)
	app.Get("/tasks", authMiddleware, taskHandler.List)
	app.Get("/tasks/:id", authMiddleware, taskHandler.Get)
	app.Patch("/tasks/:id", authMiddleware, taskHandler.Update)
	app.Delete("/tasks/:id", authMiddleware, taskHandler.Delete)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8000"
	}

	slog.Info("Listening task-service", "port", port)
	log.Fatal(app.Listen(":" + port))
}

func newAvatarStore(db *sqlx.DB) (avatar.Store, error) {
	if os.Getenv("AVATAR_STORE") == "s3" {
		return avatar.NewS3Store(context.Background())
	}
	return avatar.NewPostgresStore(db), nil
}

func databaseURL() string {
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)
}

func connectDB() *sqlx.DB {
	db, err := sqlx.Connect("pgx", databaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	slog.Info("Successfully connected to the database")
	return db
}

func handleMigrations() {
	fmt.Println("Running database migrations...")

	db, err := sql.Open("pgx", databaseURL())
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}
