package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"drivesim.dev/internal/config"
	"drivesim.dev/internal/record"
	"drivesim.dev/internal/scenario"
	"drivesim.dev/internal/simclient"
	"drivesim.dev/internal/smoke"
)

func main() {
	var (
		configPath = flag.String("config", "configs/smoke.yaml", "path to runner config")
		endpoint   = flag.String("endpoint", "", "simulator websocket URL (overrides config)")
		mapName    = flag.String("map", "", "map to run against (overrides config)")
		runFilter  = flag.String("run", "", "comma-separated scenario names; empty runs everything")
		dialWait   = flag.Duration("dial-timeout", 10*time.Second, "dial and handshake timeout")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[smoke] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}
	if *mapName != "" {
		cfg.Map = *mapName
	}

	scenarios := smoke.Suite(cfg.Map)
	if *runFilter != "" {
		scenarios = filterScenarios(scenarios, *runFilter)
		if len(scenarios) == 0 {
			logger.Fatalf("no scenarios match -run=%q", *runFilter)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *dialWait)
	client, err := simclient.Dial(ctx, cfg.Endpoint, cfg.ClientName)
	cancel()
	if err != nil {
		logger.Fatalf("connect: %v", err)
	}
	defer client.Close()
	logger.Printf("connected to %s, session %s, map %s", cfg.Endpoint, client.SessionID(), client.WorldParams().MapName)

	var trace *record.TraceWriter
	if cfg.RecordTrace {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			logger.Fatalf("data dir: %v", err)
		}
		path := filepath.Join(cfg.DataDir, time.Now().UTC().Format("trace-20060102-150405.jsonl.zst"))
		trace, err = record.NewTraceWriter(path)
		if err != nil {
			logger.Fatalf("trace: %v", err)
		}
		defer trace.Close()
		logger.Printf("tracing to %s", path)
	}

	started := time.Now()
	results := scenario.RunSuite(scenarios, client, logger, trace)

	failed := 0
	for _, res := range results {
		if res.Status != scenario.StatusPass {
			failed++
		}
	}

	if cfg.RecordResults {
		if err := persistResults(cfg, started, results); err != nil {
			logger.Printf("results db: %v", err)
		}
	}

	logger.Printf("suite done: %d passed, %d failed (%.1fs)", len(results)-failed, failed, time.Since(started).Seconds())
	if failed > 0 {
		os.Exit(1)
	}
}

func filterScenarios(scenarios []scenario.Scenario, filter string) []scenario.Scenario {
	want := map[string]bool{}
	for _, name := range strings.Split(filter, ",") {
		want[strings.TrimSpace(name)] = true
	}
	var out []scenario.Scenario
	for _, sc := range scenarios {
		if want[sc.Name] {
			out = append(out, sc)
		}
	}
	return out
}

func persistResults(cfg config.Config, started time.Time, results []scenario.Result) error {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}
	db, err := record.OpenResults(filepath.Join(cfg.DataDir, "results.db"))
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := db.BeginRun(started, cfg.Endpoint, cfg.Map)
	if err != nil {
		return err
	}
	for _, res := range results {
		if err := db.RecordScenario(runID, res.Scenario, res.Status, res.Message, res.Duration); err != nil {
			return err
		}
	}
	return nil
}
