package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hourly-labs/timetrack-backend/config"
	"github.com/hourly-labs/timetrack-backend/internal/db"
	"github.com/hourly-labs/timetrack-backend/internal/logging"
	"github.com/hourly-labs/timetrack-backend/internal/scheduler"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/repository"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/service"
)

const auditJob = "open-entry-audit"

func main() {
	cmd := "schedule"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "schedule", "audit":
	default:
		log.Fatalf("usage: worker [schedule|audit]; unknown command: %s", cmd)
	}

	if err := run(cmd); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

func run(cmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stdout, cfg.App.LogLevel).With("service", "timetrack-worker", "env", cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	entries := repository.NewPostgresRepositoryManager().Entries(database.SQL)
	audit := service.NewOpenEntryAudit(entries, service.SystemClock{}, time.Duration(cfg.Audit.OpenHours)*time.Hour, logger)
	job := func(ctx context.Context) error {
		_, err := audit.Run(ctx)
		return err
	}

	sched := scheduler.NewScheduler(logger)
	if cmd == "audit" {
		return sched.RunOnce(ctx, auditJob, job)
	}

	if err := sched.Add(cfg.Audit.Schedule, auditJob, job); err != nil {
		return err
	}
	sched.Start()
	logger.Info(ctx, "worker started", "schedule", cfg.Audit.Schedule)

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	sched.Stop(stopCtx)
	logger.Info(context.Background(), "worker stopped")
	return nil
}
