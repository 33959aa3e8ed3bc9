// ABOUTME: Routing benchmark metrics: target accuracy and argument recall
// ABOUTME: Deterministic scoring against labeled scenarios

package routing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harper/hospital-navigator/internal/models"
)

// Result statuses
const (
	StatusPass  = "PASS"
	StatusFail  = "FAIL"
	StatusError = "ERROR"
)

// TestResult is the scored outcome of one scenario
type TestResult struct {
	TestID        string                 `json:"test_id"`
	TestName      string                 `json:"test_name"`
	ExpectedAgent models.AgentType       `json:"expected_agent"`
	ActualAgent   models.AgentType       `json:"actual_agent"`
	TargetScore   float64                `json:"target_score"`
	ArgumentScore float64                `json:"argument_score"`
	OverallScore  float64                `json:"overall_score"`
	Status        string                 `json:"status"`
	Details       map[string]interface{} `json:"details"`
}

// AgentScore aggregates results for one expected agent
type AgentScore struct {
	Total   int     `json:"total"`
	Correct int     `json:"correct"`
	Rate    float64 `json:"rate"`
}

// Summary aggregates a benchmark run
type Summary struct {
	Total    int                             `json:"total"`
	Passed   int                             `json:"passed"`
	Failed   int                             `json:"failed"`
	Errored  int                             `json:"errored"`
	Accuracy float64                         `json:"accuracy"`
	PerAgent map[models.AgentType]AgentScore `json:"per_agent"`
}

// MetricsCalculator computes routing scores for benchmark tests
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateTargetAccuracy is 1.0 when the decision reached the expected agent
func (m *MetricsCalculator) CalculateTargetAccuracy(decision models.RoutingDecision, expected models.AgentType) (float64, string) {
	if decision.Target == expected {
		return 1.0, fmt.Sprintf("Routed to %s as expected", expected)
	}
	return 0.0, fmt.Sprintf("Routed to %s, expected %s", decision.Target, expected)
}

// CalculateArgumentRecall is the share of expected arguments whose value
// contains the expected substring
func (m *MetricsCalculator) CalculateArgumentRecall(fields map[string]string, expected map[string]string) (float64, string) {
	if len(expected) == 0 {
		return 1.0, "No argument expectations"
	}

	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	found := 0
	var missing []string
	for _, k := range keys {
		if strings.Contains(strings.ToLower(fields[k]), strings.ToLower(expected[k])) {
			found++
		} else {
			missing = append(missing, fmt.Sprintf("%s~%q (got %q)", k, expected[k], fields[k]))
		}
	}

	recall := float64(found) / float64(len(expected))
	if recall == 1.0 {
		return 1.0, "All expected arguments extracted"
	}
	return recall, fmt.Sprintf("Partial argument recall (%.2f) - missing: %v", recall, missing)
}

// EvaluateTest scores one decision against its scenario. A wrong target
// zeroes the argument score.
func (m *MetricsCalculator) EvaluateTest(scenario TestScenario, decision models.RoutingDecision) TestResult {
	target, targetDetail := m.CalculateTargetAccuracy(decision, scenario.ExpectedAgent)

	var fields map[string]string
	if decision.Arguments != nil {
		fields = decision.Arguments.Fields()
	}
	args, argsDetail := m.CalculateArgumentRecall(fields, scenario.ExpectedArgs)
	if target == 0 {
		args = 0
	}

	status := StatusFail
	if target == 1.0 && args >= 0.5 {
		status = StatusPass
	}

	return TestResult{
		TestID:        scenario.ID,
		TestName:      scenario.Name,
		ExpectedAgent: scenario.ExpectedAgent,
		ActualAgent:   decision.Target,
		TargetScore:   target,
		ArgumentScore: args,
		OverallScore:  (target + args) / 2.0,
		Status:        status,
		Details: map[string]interface{}{
			"target_detail":   targetDetail,
			"argument_detail": argsDetail,
			"arguments":       fields,
			"fallback_text":   decision.RawText,
		},
	}
}

// Summarize aggregates results per expected agent
func Summarize(results []TestResult) Summary {
	s := Summary{Total: len(results), PerAgent: map[models.AgentType]AgentScore{}}
	for _, r := range results {
		score := s.PerAgent[r.ExpectedAgent]
		score.Total++
		switch r.Status {
		case StatusPass:
			s.Passed++
		case StatusError:
			s.Errored++
		default:
			s.Failed++
		}
		if r.Status != StatusError && r.TargetScore == 1.0 {
			score.Correct++
		}
		s.PerAgent[r.ExpectedAgent] = score
	}

	correct := 0
	for agent, score := range s.PerAgent {
		score.Rate = float64(score.Correct) / float64(score.Total)
		s.PerAgent[agent] = score
		correct += score.Correct
	}
	if s.Total > 0 {
		s.Accuracy = float64(correct) / float64(s.Total)
	}
	return s
}
