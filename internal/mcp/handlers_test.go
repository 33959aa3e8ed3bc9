// ABOUTME: Tests for MCP tool handlers around a fake router
// ABOUTME: Verifies tool results, tool errors and state changes per tool
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/hospital-navigator/internal/dispatch"
	"github.com/harper/hospital-navigator/internal/llm"
	"github.com/harper/hospital-navigator/internal/models"
)

type fakeRouter struct {
	decision models.RoutingDecision
	err      error
	calls    int
}

func (f *fakeRouter) Route(ctx context.Context, text string) (models.RoutingDecision, error) {
	f.calls++
	return f.decision, f.err
}

func newHandlers(r *fakeRouter) *Handlers {
	return NewHandlers(r, dispatch.New(r))
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", res.Content[0])
	}
	return text.Text
}

func decode(t *testing.T, res *mcp.CallToolResult, dest interface{}) {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), dest); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
}

func TestRouteRequest_Delegation(t *testing.T) {
	r := &fakeRouter{decision: models.NewDelegation(models.SchedulerArgs{Intent: "book", Department: "Cardiology"})}
	h := newHandlers(r)

	res, err := h.RouteRequest(context.Background(), callRequest("route_request", map[string]interface{}{
		"message": "book me with cardiology",
	}))
	if err != nil {
		t.Fatalf("RouteRequest() error = %v", err)
	}

	var got DecisionResponse
	decode(t, res, &got)
	if got.Target != models.AgentScheduler || !got.Delegated {
		t.Errorf("response = %+v", got)
	}
	if got.Arguments["intent"] != "book" || got.Arguments["department"] != "Cardiology" {
		t.Errorf("Arguments = %v", got.Arguments)
	}

	// routing alone never touches the conversation
	if n := len(h.navigator.Snapshot().Messages); n != 1 {
		t.Errorf("messages = %d, want only the welcome message", n)
	}
}

func TestRouteRequest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		err     error
		wantMsg string
	}{
		{"missing message", map[string]interface{}{}, nil, "message argument is required"},
		{"router failure", map[string]interface{}{"message": "hi"}, &llm.ConfigurationError{Reason: "OPENAI_API_KEY is not set"}, "routing failed: configuration error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlers(&fakeRouter{err: tt.err})
			res, err := h.RouteRequest(context.Background(), callRequest("route_request", tt.args))
			if err != nil {
				t.Fatalf("RouteRequest() error = %v", err)
			}
			if !res.IsError {
				t.Fatal("expected a tool error")
			}
			if !strings.Contains(resultText(t, res), tt.wantMsg) {
				t.Errorf("text = %q, want %q", resultText(t, res), tt.wantMsg)
			}
		})
	}
}

func TestSubmitMessage(t *testing.T) {
	r := &fakeRouter{decision: models.NewDelegation(models.MedicalRecordsArgs{QueryType: "lab_result", PatientContext: "last week"})}
	h := newHandlers(r)

	res, err := h.SubmitMessage(context.Background(), callRequest("submit_message", map[string]interface{}{
		"message": "I need my lab results from last week",
	}))
	if err != nil {
		t.Fatalf("SubmitMessage() error = %v", err)
	}

	var got TurnResponse
	decode(t, res, &got)
	if got.MessageCount != 3 {
		t.Errorf("MessageCount = %d, want 3", got.MessageCount)
	}
	if !got.Reply.IsDelegation || got.Reply.Agent != models.AgentMedicalRecords {
		t.Errorf("Reply = %+v", got.Reply)
	}
	if got.State.ActiveAgent != models.AgentMedicalRecords || got.State.Status != models.StatusCompleted {
		t.Errorf("State = %+v", got.State)
	}
	if got.State.Panel.Title != "Medical Records Agent" {
		t.Errorf("Panel = %+v", got.State.Panel)
	}
	if got.Error != "" {
		t.Errorf("Error = %q, want none", got.Error)
	}
}

func TestSubmitMessage_GatewayFailure(t *testing.T) {
	h := newHandlers(&fakeRouter{err: &llm.TransportError{Op: "chat completion", Err: errors.New("503")}})

	res, err := h.SubmitMessage(context.Background(), callRequest("submit_message", map[string]interface{}{
		"message": "what do I owe?",
	}))
	if err != nil {
		t.Fatalf("SubmitMessage() error = %v", err)
	}

	var got TurnResponse
	decode(t, res, &got)
	if got.State.Status != models.StatusError {
		t.Errorf("Status = %s, want error", got.State.Status)
	}
	if got.Reply.Content != dispatch.ErrorText {
		t.Errorf("Reply = %q", got.Reply.Content)
	}
	if !strings.Contains(got.Error, "transport error") {
		t.Errorf("Error = %q", got.Error)
	}
}

func TestSubmitMessage_Blank(t *testing.T) {
	r := &fakeRouter{}
	h := newHandlers(r)

	res, err := h.SubmitMessage(context.Background(), callRequest("submit_message", map[string]interface{}{
		"message": "   ",
	}))
	if err != nil {
		t.Fatalf("SubmitMessage() error = %v", err)
	}
	if !res.IsError {
		t.Error("blank message should be a tool error")
	}
	if r.calls != 0 {
		t.Errorf("router called %d times, want 0", r.calls)
	}
}

func TestGetState(t *testing.T) {
	r := &fakeRouter{decision: models.NewDelegation(models.PatientInfoArgs{Action: "update"})}
	h := newHandlers(r)

	res, _ := h.GetState(context.Background(), callRequest("get_state", nil))
	var idle StateResponse
	decode(t, res, &idle)
	if idle.ActiveAgent != models.AgentNavigator || idle.Status != models.StatusIdle || idle.Panel.Title != "System Idle" {
		t.Errorf("initial state = %+v", idle)
	}

	_, _ = h.SubmitMessage(context.Background(), callRequest("submit_message", map[string]interface{}{"message": "change my address"}))

	res, _ = h.GetState(context.Background(), callRequest("get_state", nil))
	var got StateResponse
	decode(t, res, &got)
	if got.ActiveAgent != models.AgentPatientInfo || got.Arguments["action"] != "update" {
		t.Errorf("state = %+v", got)
	}
}

func TestGetConversation(t *testing.T) {
	r := &fakeRouter{decision: models.NewFallback("I apologize, could you clarify your request?")}
	h := newHandlers(r)
	_, _ = h.SubmitMessage(context.Background(), callRequest("submit_message", map[string]interface{}{"message": "hello"}))

	res, _ := h.GetConversation(context.Background(), callRequest("get_conversation", nil))
	var all ConversationResponse
	decode(t, res, &all)
	if all.Total != 3 || len(all.Messages) != 3 {
		t.Errorf("conversation = %+v", all)
	}
	if all.Messages[0].ID != "welcome" {
		t.Errorf("first message = %+v", all.Messages[0])
	}

	res, _ = h.GetConversation(context.Background(), callRequest("get_conversation", map[string]interface{}{"limit": float64(1)}))
	var last ConversationResponse
	decode(t, res, &last)
	if last.Total != 3 || len(last.Messages) != 1 || last.Messages[0].Role != models.RoleModel {
		t.Errorf("limited conversation = %+v", last)
	}

	res, _ = h.GetConversation(context.Background(), callRequest("get_conversation", map[string]interface{}{"limit": float64(-1)}))
	if !res.IsError {
		t.Error("negative limit should be a tool error")
	}
}

func TestRegisterTools(t *testing.T) {
	r := &fakeRouter{}
	server := mcpserver.NewMCPServer("test", "0.0.0")
	if h := RegisterTools(server, r, dispatch.New(r)); h == nil {
		t.Fatal("RegisterTools() returned nil handlers")
	}

	resp := server.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	for _, name := range []string{"route_request", "submit_message", "get_state", "get_conversation"} {
		if !strings.Contains(string(data), `"`+name+`"`) {
			t.Errorf("tools/list missing %s: %s", name, data)
		}
	}
}

func TestNewServer(t *testing.T) {
	r := &fakeRouter{}
	server := NewServer("1.2.3", r, dispatch.New(r))

	resp := server.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, _ := json.Marshal(resp)
	if !strings.Contains(string(data), `"route_request"`) {
		t.Errorf("tools/list = %s", data)
	}
}
