// ABOUTME: Command-line runner for the routing accuracy benchmark
// ABOUTME: Sends labeled requests through the live router and writes JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/harper/hospital-navigator/benchmarks/routing"
	"github.com/harper/hospital-navigator/internal/config"
	"github.com/harper/hospital-navigator/internal/llm"
	"github.com/harper/hospital-navigator/internal/logging"
	"github.com/harper/hospital-navigator/internal/router"
)

func main() {
	testID := flag.String("test", "", "Run a specific scenario (e.g. as1). If empty, runs all scenarios.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Verbose: *verbose})

	if cfg.APIKey() == "" {
		logger.Fatal("OPENAI_API_KEY environment variable is required for benchmarks")
	}

	scenarios := routing.AllScenarios()
	if *testID != "" {
		s, err := routing.GetScenario(*testID)
		if err != nil {
			logger.Fatal("unknown scenario", "id", *testID)
		}
		scenarios = []routing.TestScenario{s}
	}

	client := llm.NewOpenAIClient(&llm.ClientConfig{
		APIKeyEnv:  config.APIKeyEnv,
		BaseURL:    cfg.BaseURL,
		ChatModel:  cfg.ChatModel,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}, logger)
	gateway := router.NewGateway(client, router.WithTemperature(float32(cfg.Temperature)), router.WithLogger(logger))

	fmt.Println("========================================")
	fmt.Println("Hospital Navigator Routing Benchmark")
	fmt.Println("========================================")
	fmt.Printf("Model: %s\n", client.Model())
	fmt.Printf("Scenarios: %d\n\n", len(scenarios))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := routing.NewBenchmarkRunner(gateway, *verbose, os.Stdout)
	results, err := runner.RunAllTests(ctx, scenarios)
	if err != nil {
		logger.Warn("benchmark interrupted", "completed", len(results), "err", err)
	}

	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.TestID, result.TestName)
		fmt.Printf("  Expected: %s\n", result.ExpectedAgent)
		fmt.Printf("  Actual:   %s\n", result.ActualAgent)
		fmt.Printf("  Arguments: %.2f\n", result.ArgumentScore)
		fmt.Printf("  Status: %s\n", result.Status)
	}

	summary := routing.Summarize(results)
	fmt.Println("\n========================================")
	fmt.Printf("Total Tests: %d\n", summary.Total)
	fmt.Printf("Passed: %d\n", summary.Passed)
	fmt.Printf("Failed: %d\n", summary.Failed)
	fmt.Printf("Errored: %d\n", summary.Errored)
	fmt.Printf("Routing accuracy: %.2f\n", summary.Accuracy)
	fmt.Println("========================================")

	if err := runner.ExportResults(results, client.Model(), *outputPath); err != nil {
		logger.Fatal("failed to export results", "err", err)
	}

	if summary.Failed > 0 || summary.Errored > 0 {
		os.Exit(1)
	}
}
