// ABOUTME: Benchmark runner that sends labeled requests through the router
// ABOUTME: Scores each decision and exports results as JSON

package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/hospital-navigator/internal/models"
)

// Router classifies one request
type Router interface {
	Route(ctx context.Context, text string) (models.RoutingDecision, error)
}

// BenchmarkRunner executes routing benchmark tests
type BenchmarkRunner struct {
	router  Router
	metrics *MetricsCalculator
	verbose bool
	out     io.Writer
}

// NewBenchmarkRunner creates a runner around router. Verbose progress goes to out.
func NewBenchmarkRunner(router Router, verbose bool, out io.Writer) *BenchmarkRunner {
	if out == nil {
		out = io.Discard
	}
	return &BenchmarkRunner{
		router:  router,
		metrics: NewMetricsCalculator(),
		verbose: verbose,
		out:     out,
	}
}

// RunTest routes one scenario and scores it. Routing failures become an
// ERROR result rather than aborting the run.
func (r *BenchmarkRunner) RunTest(ctx context.Context, scenario TestScenario) TestResult {
	if r.verbose {
		fmt.Fprintf(r.out, "[%s] %s\n", scenario.ID, scenario.Message)
	}

	start := time.Now()
	decision, err := r.router.Route(ctx, scenario.Message)
	elapsed := time.Since(start)

	if err != nil {
		if r.verbose {
			fmt.Fprintf(r.out, "  error: %v\n", err)
		}
		return TestResult{
			TestID:        scenario.ID,
			TestName:      scenario.Name,
			ExpectedAgent: scenario.ExpectedAgent,
			Status:        StatusError,
			Details: map[string]interface{}{
				"error":      err.Error(),
				"latency_ms": elapsed.Milliseconds(),
			},
		}
	}

	result := r.metrics.EvaluateTest(scenario, decision)
	result.Details["latency_ms"] = elapsed.Milliseconds()

	if r.verbose {
		fmt.Fprintf(r.out, "  -> %s (%s)\n", decision.Target, result.Status)
	}
	return result
}

// RunAllTests runs every scenario in order. It stops early only when ctx is done.
func (r *BenchmarkRunner) RunAllTests(ctx context.Context, scenarios []TestScenario) ([]TestResult, error) {
	results := make([]TestResult, 0, len(scenarios))
	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, r.RunTest(ctx, s))
	}
	return results, nil
}

// Report is the exported benchmark file
type Report struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Model       string       `json:"model,omitempty"`
	Summary     Summary      `json:"summary"`
	Results     []TestResult `json:"results"`
}

// ExportResults writes results and their summary as indented JSON
func (r *BenchmarkRunner) ExportResults(results []TestResult, model, outputPath string) error {
	report := Report{
		GeneratedAt: time.Now().UTC(),
		Model:       model,
		Summary:     Summarize(results),
		Results:     results,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
