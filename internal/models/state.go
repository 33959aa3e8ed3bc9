// ABOUTME: NavigatorState tracks the active agent, its payload and turn status
// ABOUTME: ActiveAgent and ContextData only ever change together
package models

// Status is the lifecycle of the current turn
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusIdle, StatusProcessing, StatusCompleted, StatusError:
		return true
	}
	return false
}

// NavigatorState is the panel-facing state. ContextData is nil unless
// ActiveAgent is a delegation target, in which case ContextData.Agent()
// equals ActiveAgent.
type NavigatorState struct {
	ActiveAgent AgentType `json:"active_agent"`
	ContextData Arguments `json:"context_data,omitempty"`
	Status      Status    `json:"status"`
}

// InitialState returns (Navigator, Idle) with no context
func InitialState() NavigatorState {
	return NavigatorState{ActiveAgent: AgentNavigator, Status: StatusIdle}
}

// WithAgent switches agent and payload in one step. A nil payload resets
// to the navigator.
func (s NavigatorState) WithAgent(args Arguments, status Status) NavigatorState {
	if args == nil {
		return NavigatorState{ActiveAgent: AgentNavigator, Status: status}
	}
	return NavigatorState{ActiveAgent: args.Agent(), ContextData: args, Status: status}
}

// WithStatus changes only the status
func (s NavigatorState) WithStatus(status Status) NavigatorState {
	s.Status = status
	return s
}
