package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/Dan9191/user-service/internal/config"
	"github.com/Dan9191/user-service/internal/handler"
	"github.com/Dan9191/user-service/internal/middleware"
	"github.com/Dan9191/user-service/internal/migrations"
	"github.com/Dan9191/user-service/internal/repository"
	"github.com/Dan9191/user-service/internal/service"
	"github.com/Dan9191/user-service/internal/utils/email"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables")
	}
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Apply schema migrations
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatalf("Failed to set migration dialect: %v", err)
	}
	if err := goose.Up(db, "."); err != nil {
		logger.Fatalf("Failed to apply migrations: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	var mailer service.Mailer
	if cfg.SMTPEnabled() {
		mailer = email.NewSender(cfg, logger)
	}
	svc := service.NewService(repo, mailer, logger, cfg)
	h := handler.NewHandler(svc, logger)

	// Setup router
	r := mux.NewRouter()
	userRouter := r.PathPrefix("/user").Subrouter()
	// Public routes
	userRouter.HandleFunc("/register", h.Register).Methods("POST")
	userRouter.HandleFunc("/login", h.Login).Methods("POST")
	userRouter.HandleFunc("/public/profiles", h.PublicProfiles).Methods("GET")
	// Protected routes
	authRouter := userRouter.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/getProfile", h.GetProfile).Methods("GET")
	authRouter.HandleFunc("/updateProfile", h.UpdateProfile).Methods("PUT")
	authRouter.HandleFunc("/admin/profiles", h.AdminProfiles).Methods("GET")

	// Periodic user-count stats
	c := cron.New()
	if _, err := c.AddFunc("@hourly", func() {
		count, err := repo.CountUsers()
		if err != nil {
			logger.Errorf("Failed to count users: %v", err)
			return
		}
		logger.Infof("Registered users: %d", count)
	}); err != nil {
		logger.Fatalf("Failed to schedule stats job: %v", err)
	}
	c.Start()
	defer c.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
