// ABOUTME: MCP tool handler implementations for the navigator server
// ABOUTME: Failures are reported as tool errors, never as protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/hospital-navigator/internal/dispatch"
	"github.com/harper/hospital-navigator/internal/models"
	"github.com/harper/hospital-navigator/internal/panels"
)

// Router classifies a message without side effects
type Router interface {
	Route(ctx context.Context, text string) (models.RoutingDecision, error)
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	router    Router
	navigator *dispatch.Navigator
}

// NewHandlers creates handlers around a router and a navigator
func NewHandlers(router Router, navigator *dispatch.Navigator) *Handlers {
	return &Handlers{router: router, navigator: navigator}
}

// DecisionResponse is the route_request result
type DecisionResponse struct {
	Target    models.AgentType  `json:"target"`
	Delegated bool              `json:"delegated"`
	Arguments map[string]string `json:"arguments,omitempty"`
	Text      string            `json:"text,omitempty"`
}

// StateResponse describes the navigator state and its panel
type StateResponse struct {
	ActiveAgent models.AgentType  `json:"active_agent"`
	Status      models.Status     `json:"status"`
	Arguments   map[string]string `json:"arguments,omitempty"`
	Panel       panels.Panel      `json:"panel"`
}

// TurnResponse is the submit_message result
type TurnResponse struct {
	Reply        models.ConversationMessage `json:"reply"`
	State        StateResponse              `json:"state"`
	MessageCount int                        `json:"message_count"`
	Error        string                     `json:"error,omitempty"`
}

// ConversationResponse is the get_conversation result
type ConversationResponse struct {
	Messages []models.ConversationMessage `json:"messages"`
	Total    int                          `json:"total"`
}

// RouteRequest handles the route_request tool
func (h *Handlers) RouteRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}

	decision, err := h.router.Route(ctx, message)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("routing failed: %v", err)), nil
	}

	response := DecisionResponse{
		Target:    decision.Target,
		Delegated: decision.IsDelegation(),
		Text:      decision.RawText,
	}
	if decision.Arguments != nil {
		response.Arguments = decision.Arguments.Fields()
	}
	return jsonResult(response)
}

// SubmitMessage handles the submit_message tool
func (h *Handlers) SubmitMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}

	turn, err := h.navigator.Submit(ctx, message)
	switch {
	case errors.Is(err, dispatch.ErrBlankInput):
		return mcp.NewToolResultError("message must not be blank"), nil
	case errors.Is(err, dispatch.ErrBusy):
		return mcp.NewToolResultError("a request is already being processed"), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("submit failed: %v", err)), nil
	}

	msgs := turn.Snapshot.Messages
	response := TurnResponse{
		Reply:        msgs[len(msgs)-1],
		State:        stateResponse(turn.Snapshot.State),
		MessageCount: len(msgs),
	}
	if turn.Err != nil {
		response.Error = turn.Err.Error()
	}
	return jsonResult(response)
}

// GetState handles the get_state tool
func (h *Handlers) GetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(stateResponse(h.navigator.Snapshot().State))
}

// GetConversation handles the get_conversation tool
func (h *Handlers) GetConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	msgs := h.navigator.Snapshot().Messages
	total := len(msgs)
	if limit > 0 && limit < total {
		msgs = msgs[total-limit:]
	}
	return jsonResult(ConversationResponse{Messages: msgs, Total: total})
}

func stateResponse(state models.NavigatorState) StateResponse {
	resp := StateResponse{
		ActiveAgent: state.ActiveAgent,
		Status:      state.Status,
		Panel:       panels.Build(state),
	}
	if state.ContextData != nil {
		resp.Arguments = state.ContextData.Fields()
	}
	return resp
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
