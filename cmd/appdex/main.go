package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/appdex-dev/appdex/db"
	"github.com/appdex-dev/appdex/internal/auth"
	"github.com/appdex-dev/appdex/internal/prober"
	"github.com/appdex-dev/appdex/internal/registry"
	"github.com/appdex-dev/appdex/internal/router"
	"github.com/appdex-dev/appdex/internal/scheduler"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	database, err := db.Connect(dsn)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := db.SeedDefaultUsers(database); err != nil {
		log.Fatalf("Failed to seed default users: %v", err)
	}

	if err := auth.Init(); err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	reg := registry.New(database, prober.New(prober.DefaultTimeout))

	sched := scheduler.New(reg, refreshInterval())
	sched.Start()

	r := router.NewRouter(database, reg)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	go func() {
		if err := r.Run(":" + port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	log.Println("Shutting down")
}

func refreshInterval() time.Duration {
	value := os.Getenv("REFRESH_INTERVAL")

	if value == "" {
		return scheduler.DefaultInterval
	}

	seconds, err := strconv.Atoi(value)

	if err != nil || seconds <= 0 {
		log.Printf("Invalid REFRESH_INTERVAL %q, using default", value)
		return scheduler.DefaultInterval
	}

	return time.Duration(seconds) * time.Second
}
