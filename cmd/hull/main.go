package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.temporal.io/sdk/client"

	natsadapter "github.com/samirrijal/hulltrace/internal/adapters/nats"
	"github.com/samirrijal/hulltrace/internal/core/domain"
	"github.com/samirrijal/hulltrace/internal/core/usecases"
	"github.com/samirrijal/hulltrace/internal/pkg/config"
	"github.com/samirrijal/hulltrace/internal/pkg/logging"
	"github.com/samirrijal/hulltrace/internal/workflows"
)

const usage = `usage: hull <command> [flags]

commands:
  run      -alg <name> -in <file> [-steps=false]   compute one hull and print the result
  compare  -in <file> [-algs a,b] [-temporal]      run several algorithms over the same points
  watch    [-durable name]                         stream run events from NATS`

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	cfg, err := config.Load("hulltrace-cli")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "run":
		err = runCmd(ctx, cfg, os.Args[2:])
	case "compare":
		err = compareCmd(ctx, cfg, os.Args[2:])
	case "watch":
		err = watchCmd(ctx, cfg, os.Args[2:])
	default:
		log.Fatalf("unknown command: %s\n%s", os.Args[1], usage)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func runCmd(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	alg := fs.String("alg", "graham", "algorithm: graham, jarvis, chan or incremental")
	in := fs.String("in", "-", "points file (JSON array), - for stdin")
	steps := fs.Bool("steps", true, "include the step trace")
	_ = fs.Parse(args)

	points, err := readPoints(*in)
	if err != nil {
		return err
	}

	svc := usecases.NewHullService(usecases.WithMaxPoints(cfg.Hull.MaxPoints))
	res, err := svc.Run(ctx, domain.Algorithm(*alg), points, usecases.RunOptions{DiscardSteps: !*steps})
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, res)
}

func compareCmd(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	in := fs.String("in", "-", "points file (JSON array), - for stdin")
	algList := fs.String("algs", "", "comma-separated algorithms (default all)")
	viaTemporal := fs.Bool("temporal", false, "run as a ComparisonWorkflow on the comparator worker")
	_ = fs.Parse(args)

	points, err := readPoints(*in)
	if err != nil {
		return err
	}
	algs := splitAlgorithms(*algList)

	if !*viaTemporal {
		svc := usecases.NewHullService(usecases.WithMaxPoints(cfg.Hull.MaxPoints))
		cmp, err := svc.Compare(ctx, algs, points)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, cmp)
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		return fmt.Errorf("temporal client: %w", err)
	}
	defer c.Close()

	id := fmt.Sprintf("hull-compare-%d", time.Now().UnixNano())
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        id,
		TaskQueue: cfg.Temporal.TaskQueue,
	}, workflows.ComparisonWorkflow, workflows.ComparisonInput{
		Points:     points,
		Algorithms: algs,
		RequestID:  id,
	})
	if err != nil {
		return fmt.Errorf("start workflow: %w", err)
	}
	slog.Info("comparison workflow started", "workflow_id", run.GetID(), "run_id", run.GetRunID())

	var cmp domain.Comparison
	if err := run.Get(ctx, &cmp); err != nil {
		return err
	}
	return printJSON(os.Stdout, &cmp)
}

func watchCmd(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	durable := fs.String("durable", "", "durable consumer name; empty follows new events only")
	_ = fs.Parse(args)

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, *durable)
	if err != nil {
		return err
	}
	defer sub.Close()

	err = sub.SubscribeRuns(ctx, func(ctx context.Context, ev *domain.RunEvent) error {
		slog.Info("run",
			"algorithm", ev.Algorithm,
			"input_size", ev.InputSize,
			"hull_size", ev.Stats.HullSize,
			"steps", ev.Stats.StepCount,
			"ms", ev.Stats.ExecutionTimeMS,
			"cached", ev.Cached,
			"request_id", ev.RequestID,
		)
		return nil
	})
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	slog.Info("watching run events", "url", cfg.NATS.URL)
	<-ctx.Done()
	return nil
}

func readPoints(path string) ([]domain.PointInput, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return decodePoints(r)
}

// decodePoints accepts a bare array or an object with a points field.
func decodePoints(r io.Reader) ([]domain.PointInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var points []domain.PointInput
	if err := json.Unmarshal(data, &points); err == nil {
		return points, nil
	}
	var body struct {
		Points []domain.PointInput `json:"points"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode points: %w", err)
	}
	if body.Points == nil {
		return nil, fmt.Errorf("decode points: no points field")
	}
	return body.Points, nil
}

func splitAlgorithms(s string) []domain.Algorithm {
	var out []domain.Algorithm
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, domain.Algorithm(name))
		}
	}
	return out
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
