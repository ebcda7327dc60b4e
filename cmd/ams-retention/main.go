package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/chapterhq/ams/pkg/audit"
)

var (
	dbURL         = flag.String("db-url", getEnv("AMS_AUDIT_POSTGRES_URL", "postgres://localhost/ams?sslmode=disable"), "PostgreSQL connection URL for the audit store")
	schedule      = flag.String("schedule", "30 1 * * *", "Cron schedule for retention cleanup (default: 01:30 UTC)")
	retentionDays = flag.Int("retention-days", 730, "Audit entries older than this many days are purged")
	runOnce       = flag.Bool("run-once", false, "Run cleanup once and exit")
)

func main() {
	flag.Parse()

	if *retentionDays < 1 {
		log.Fatalf("Invalid retention: %d days", *retentionDays)
	}

	db, err := sql.Open("postgres", *dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	logger := audit.NewDBLogger(db)
	policy := audit.RetentionPolicy{RetentionDays: *retentionDays}

	if *runOnce {
		if err := runCleanup(logger, policy); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		return
	}

	c := cron.New()
	_, err = c.AddFunc(*schedule, func() {
		if err := runCleanup(logger, policy); err != nil {
			log.Printf("Cleanup failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule cleanup: %v", err)
	}

	c.Start()
	log.Println("AMS audit retention worker started")
	log.Printf("Cleanup schedule: %s", *schedule)
	log.Printf("Retention window: %d days", *retentionDays)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutting down gracefully...")
	<-c.Stop().Done()
}

func runCleanup(logger *audit.DBLogger, policy audit.RetentionPolicy) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	purged, err := logger.Cleanup(ctx, policy)
	if err != nil {
		return err
	}
	log.Printf("Purged %d audit entries older than %d days in %s", purged, policy.RetentionDays, time.Since(start).Round(time.Millisecond))
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
