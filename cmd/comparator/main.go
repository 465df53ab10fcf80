package main

import (
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/hulltrace/internal/core/usecases"
	"github.com/samirrijal/hulltrace/internal/pkg/config"
	"github.com/samirrijal/hulltrace/internal/pkg/logging"
	"github.com/samirrijal/hulltrace/internal/workflows"
)

func main() {
	cfg, err := config.Load("hulltrace-comparator")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities. Activities skip the cache and event
	// stream: a comparison is reported once, by the workflow result.
	w.RegisterWorkflow(workflows.ComparisonWorkflow)
	w.RegisterActivity(&workflows.ComparisonActivities{
		Hull: usecases.NewHullService(usecases.WithMaxPoints(cfg.Hull.MaxPoints)),
	})

	slog.Info("comparator worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
