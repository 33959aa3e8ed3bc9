// ABOUTME: Router Gateway turning one user message into a RoutingDecision
// ABOUTME: Honors only the first tool call; text replies become navigator fallbacks
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/harper/hospital-navigator/internal/llm"
	"github.com/harper/hospital-navigator/internal/logging"
	"github.com/harper/hospital-navigator/internal/models"
)

const (
	// UnknownTargetText is shown when the model calls a function we never offered
	UnknownTargetText = "I couldn't find the right agent."
	// ClarifyText replaces an empty fallback reply
	ClarifyText = "I apologize, could you clarify your request?"
)

// ErrEmptyMessage is returned for blank input before any call is made
var ErrEmptyMessage = errors.New("message cannot be empty")

// Completer is the function-calling backend the gateway talks to
type Completer interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.Completion, error)
}

// Gateway classifies user intent through a Completer
type Gateway struct {
	completer   Completer
	temperature float32
	logger      *log.Logger
}

// Option customizes a Gateway
type Option func(*Gateway)

// WithTemperature overrides the decoding temperature
func WithTemperature(t float32) Option {
	return func(g *Gateway) { g.temperature = t }
}

// WithLogger attaches a logger
func WithLogger(l *log.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// NewGateway creates a gateway over completer
func NewGateway(completer Completer, opts ...Option) *Gateway {
	g := &Gateway{
		completer:   completer,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = logging.OrDiscard(g.logger)
	return g
}

// Route classifies text. Errors from the completer are returned unchanged so
// callers can tell ConfigurationError from TransportError.
func (g *Gateway) Route(ctx context.Context, text string) (models.RoutingDecision, error) {
	if strings.TrimSpace(text) == "" {
		return models.RoutingDecision{}, ErrEmptyMessage
	}

	completion, err := g.completer.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: SystemInstruction,
		UserMessage:  text,
		Tools:        Tools(),
		Temperature:  g.temperature,
	})
	if err != nil {
		return models.RoutingDecision{}, err
	}
	if completion == nil {
		return models.RoutingDecision{}, &llm.TransportError{Op: "chat completion", Err: errors.New("empty response")}
	}

	return g.decide(completion)
}

// decide maps a completion to a decision. Extra tool calls are ignored.
func (g *Gateway) decide(completion *llm.Completion) (models.RoutingDecision, error) {
	if len(completion.ToolCalls) == 0 {
		text := strings.TrimSpace(completion.Text)
		if text == "" {
			text = ClarifyText
		}
		g.logger.Debug("no delegation", "text_len", len(text))
		return models.NewFallback(text), nil
	}

	if len(completion.ToolCalls) > 1 {
		g.logger.Debug("multiple tool calls, honoring first", "count", len(completion.ToolCalls))
	}
	call := completion.ToolCalls[0]

	target := models.AgentType(call.Name)
	// An unrecognized function is not a delegation. The turn ends as a plain
	// navigator reply with status idle, not a completed hand-off.
	if !target.IsTarget() {
		g.logger.Warn("model called unknown function", "name", call.Name)
		return models.NewFallback(UnknownTargetText), nil
	}

	args, err := models.DecodeArguments(target, []byte(call.Arguments))
	if err != nil {
		return models.RoutingDecision{}, &llm.TransportError{
			Op:  "decoding tool call",
			Err: fmt.Errorf("%s: %w", call.Name, err),
		}
	}

	g.logger.Debug("routed", "target", target, "args", args.Fields())
	return models.NewDelegation(args), nil
}
