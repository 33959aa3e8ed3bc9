// ABOUTME: Pure state transitions for the navigator conversation
// ABOUTME: Reduce applies one event to a snapshot and returns a new snapshot
package dispatch

import (
	"github.com/harper/hospital-navigator/internal/models"
)

// ErrorText is shown to the user whenever a turn fails
const ErrorText = "I encountered an error connecting to the central system. Please check your API Key configuration."

// Confirmation returns the fixed delegation message for a target
func Confirmation(agent models.AgentType) string {
	switch agent {
	case models.AgentMedicalRecords:
		return "I am routing you to the Medical Records Agent to access those documents safely."
	case models.AgentBilling:
		return "Connecting you to the Billing & Insurance Department for assistance with your query."
	case models.AgentPatientInfo:
		return "Opening Patient Information System to manage details."
	case models.AgentScheduler:
		return "Delegating request to the Appointment Scheduler."
	case models.AgentNavigator:
	}
	return "I couldn't find the right agent."
}

// Snapshot is an immutable view of the conversation. Messages is never
// mutated in place; Reduce always copies before appending.
type Snapshot struct {
	State    models.NavigatorState        `json:"state"`
	Messages []models.ConversationMessage `json:"messages"`
}

// NewSnapshot returns the initial state seeded with the welcome message
func NewSnapshot() Snapshot {
	return Snapshot{
		State:    models.InitialState(),
		Messages: []models.ConversationMessage{models.NewWelcomeMessage()},
	}
}

// Event is something that happened during a turn
type Event interface {
	event()
}

// Submitted: the user sent a message and routing starts
type Submitted struct {
	Message models.ConversationMessage
}

// Delegated: the gateway selected a target
type Delegated struct {
	Decision models.RoutingDecision
	Message  models.ConversationMessage
}

// FellBack: the gateway returned text instead of a target
type FellBack struct {
	Message models.ConversationMessage
}

// Failed: the gateway call errored
type Failed struct {
	Message models.ConversationMessage
	Err     error
}

func (Submitted) event() {}
func (Delegated) event() {}
func (FellBack) event()  {}
func (Failed) event()    {}

// Reduce applies ev to s
func Reduce(s Snapshot, ev Event) Snapshot {
	switch e := ev.(type) {
	case Submitted:
		// no carry-over: every turn re-routes from scratch
		return Snapshot{
			State:    s.State.WithAgent(nil, models.StatusProcessing),
			Messages: appendMessage(s.Messages, e.Message),
		}
	case Delegated:
		if !e.Decision.IsDelegation() {
			return Reduce(s, FellBack{Message: e.Message})
		}
		return Snapshot{
			State:    s.State.WithAgent(e.Decision.Arguments, models.StatusCompleted),
			Messages: appendMessage(s.Messages, e.Message),
		}
	case FellBack:
		return Snapshot{
			State:    s.State.WithAgent(nil, models.StatusIdle),
			Messages: appendMessage(s.Messages, e.Message),
		}
	case Failed:
		return Snapshot{
			State:    s.State.WithStatus(models.StatusError),
			Messages: appendMessage(s.Messages, e.Message),
		}
	}
	return s
}

func appendMessage(msgs []models.ConversationMessage, msg models.ConversationMessage) []models.ConversationMessage {
	out := make([]models.ConversationMessage, len(msgs), len(msgs)+1)
	copy(out, msgs)
	return append(out, msg)
}

// Outcome builds the closing event for a turn from the gateway's result
func Outcome(decision models.RoutingDecision, err error) Event {
	if err != nil {
		return Failed{Message: models.NewModelMessage(ErrorText), Err: err}
	}
	if decision.IsDelegation() {
		return Delegated{
			Decision: decision,
			Message:  models.NewDelegationMessage(decision.Target, Confirmation(decision.Target)),
		}
	}
	return FellBack{Message: models.NewModelMessage(decision.RawText)}
}
