// ABOUTME: Navigator owns the conversation snapshot and runs one turn at a time
// ABOUTME: Submissions while a turn is in flight, or with blank text, are rejected without side effects
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/hospital-navigator/internal/logging"
	"github.com/harper/hospital-navigator/internal/models"
)

var (
	// ErrBlankInput rejects empty or whitespace-only submissions
	ErrBlankInput = errors.New("input is blank")
	// ErrBusy rejects submissions while a turn is processing
	ErrBusy = errors.New("a turn is already in progress")
)

// Gateway routes one user message
type Gateway interface {
	Route(ctx context.Context, text string) (models.RoutingDecision, error)
}

// Recorder persists messages as they are appended
type Recorder interface {
	Record(msg models.ConversationMessage) error
}

// Turn is the result of one accepted submission
type Turn struct {
	Snapshot Snapshot
	Decision models.RoutingDecision
	// Err is the gateway failure, already turned into ErrorText for the user
	Err      error
	Duration time.Duration
}

// Navigator is the single owner of the conversation state
type Navigator struct {
	gateway  Gateway
	recorder Recorder
	logger   *log.Logger

	mu       sync.Mutex
	snap     Snapshot
	inFlight bool
}

// Option customizes a Navigator
type Option func(*Navigator)

// WithRecorder persists every appended message
func WithRecorder(r Recorder) Option {
	return func(n *Navigator) { n.recorder = r }
}

// WithLogger attaches a logger
func WithLogger(l *log.Logger) Option {
	return func(n *Navigator) { n.logger = l }
}

// WithSnapshot starts from an existing snapshot instead of the welcome state
func WithSnapshot(s Snapshot) Option {
	return func(n *Navigator) { n.snap = s }
}

// New creates a Navigator in (Navigator, Idle)
func New(gateway Gateway, opts ...Option) *Navigator {
	n := &Navigator{
		gateway: gateway,
		snap:    NewSnapshot(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.logger = logging.OrDiscard(n.logger)
	return n
}

// Snapshot returns the current state
func (n *Navigator) Snapshot() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snap
}

// Busy reports whether a turn is in flight
func (n *Navigator) Busy() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.inFlight
}

// Submit runs one turn. Gateway failures do not surface as errors; they end
// the turn in StatusError with ErrorText appended. The returned error is
// only ErrBlankInput or ErrBusy, in which case nothing changed.
func (n *Navigator) Submit(ctx context.Context, text string) (Turn, error) {
	if strings.TrimSpace(text) == "" {
		return Turn{Snapshot: n.Snapshot()}, ErrBlankInput
	}

	n.mu.Lock()
	if n.inFlight {
		snap := n.snap
		n.mu.Unlock()
		return Turn{Snapshot: snap}, ErrBusy
	}
	n.inFlight = true
	userMsg := models.NewUserMessage(text)
	n.snap = Reduce(n.snap, Submitted{Message: userMsg})
	n.mu.Unlock()

	n.record(userMsg)

	start := time.Now()
	decision, err := n.route(ctx, text)
	ev := Outcome(decision, err)

	n.mu.Lock()
	n.snap = Reduce(n.snap, ev)
	n.inFlight = false
	snap := n.snap
	n.mu.Unlock()

	n.record(snap.Messages[len(snap.Messages)-1])

	turn := Turn{Snapshot: snap, Decision: decision, Err: err, Duration: time.Since(start)}
	if err != nil {
		turn.Decision = models.RoutingDecision{}
		n.logger.Error("turn failed", "err", err, "duration", turn.Duration)
	} else {
		n.logger.Info("turn complete", "agent", snap.State.ActiveAgent, "status", snap.State.Status, "duration", turn.Duration)
	}
	return turn, nil
}

// route calls the gateway, turning a panic into an error so the turn still
// completes and clears inFlight.
func (n *Navigator) route(ctx context.Context, text string) (decision models.RoutingDecision, err error) {
	defer func() {
		if r := recover(); r != nil {
			decision = models.RoutingDecision{}
			err = fmt.Errorf("gateway panicked: %v", r)
		}
	}()
	return n.gateway.Route(ctx, text)
}

// Reset starts a fresh conversation. It fails with ErrBusy mid-turn.
func (n *Navigator) Reset() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.inFlight {
		return ErrBusy
	}
	n.snap = NewSnapshot()
	return nil
}

func (n *Navigator) record(msg models.ConversationMessage) {
	if n.recorder == nil {
		return
	}
	if err := n.recorder.Record(msg); err != nil {
		n.logger.Warn("failed to record message", "id", msg.ID, "err", err)
	}
}
