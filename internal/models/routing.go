// ABOUTME: RoutingDecision is the outcome of classifying one user message
// ABOUTME: Either a delegation to a target with typed arguments, or fallback text
package models

// RoutingDecision contains the classifier's choice for a single turn.
// Target is AgentNavigator when the model declined to delegate; RawText then
// holds the reply to show the user.
type RoutingDecision struct {
	Target    AgentType `json:"target"`
	Arguments Arguments `json:"arguments,omitempty"`
	RawText   string    `json:"raw_text,omitempty"`
}

// NewDelegation builds a decision routing to the variant's own target
func NewDelegation(args Arguments) RoutingDecision {
	return RoutingDecision{Target: args.Agent(), Arguments: args}
}

// NewFallback builds a decision that keeps the navigator in charge
func NewFallback(text string) RoutingDecision {
	return RoutingDecision{Target: AgentNavigator, RawText: text}
}

// IsDelegation reports whether the decision selects a sub-agent
func (d RoutingDecision) IsDelegation() bool {
	return d.Target.IsTarget() && d.Arguments != nil
}
