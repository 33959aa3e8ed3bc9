// ABOUTME: Tests for the chat TUI model
// ABOUTME: Drives Update with key messages and resolves submit commands synchronously

package commands

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harper/hospital-navigator/internal/dispatch"
	"github.com/harper/hospital-navigator/internal/models"
)

type stubGateway struct {
	decision models.RoutingDecision
	calls    int
}

func (g *stubGateway) Route(ctx context.Context, text string) (models.RoutingDecision, error) {
	g.calls++
	return g.decision, nil
}

func newTestChat(decision models.RoutingDecision) (chatModel, *stubGateway) {
	gw := &stubGateway{decision: decision}
	return newChatModel(context.Background(), dispatch.New(gw), ""), gw
}

func typeAndEnter(m chatModel, text string) (chatModel, tea.Cmd) {
	m.input.SetValue(text)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(chatModel), cmd
}

// findTurn runs cmd (and any batched commands) until a turnMsg appears
func findTurn(t *testing.T, cmd tea.Cmd) turnMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	switch msg := cmd().(type) {
	case turnMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if tm, ok := c().(turnMsg); ok {
				return tm
			}
		}
	}
	t.Fatal("no turnMsg produced")
	return turnMsg{}
}

func TestChat_SubmitDelegates(t *testing.T) {
	m, gw := newTestChat(models.NewDelegation(models.BillingArgs{Action: "check_bill"}))

	m, cmd := typeAndEnter(m, "why is my bill so high")
	if !m.busy {
		t.Fatal("model should be busy after enter")
	}
	if m.input.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.input.Value())
	}
	if !strings.Contains(m.View(), "Identifying intent...") {
		t.Error("view should show the processing indicator")
	}

	next, _ := m.Update(findTurn(t, cmd))
	m = next.(chatModel)

	if m.busy {
		t.Error("model should be idle after the turn")
	}
	if gw.calls != 1 {
		t.Errorf("gateway calls = %d, want 1", gw.calls)
	}
	if m.snap.State.ActiveAgent != models.AgentBilling {
		t.Errorf("ActiveAgent = %s", m.snap.State.ActiveAgent)
	}
	view := m.View()
	for _, want := range []string{"Billing & Insurance", "Connecting you to the Billing & Insurance Department"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestChat_EnterIgnoredWhileBusy(t *testing.T) {
	m, _ := newTestChat(models.NewFallback("Hello"))

	m, _ = typeAndEnter(m, "first request")
	m, cmd := typeAndEnter(m, "second request")

	if cmd != nil {
		t.Error("enter while busy should not start a turn")
	}
	if m.pending != "first request" {
		t.Errorf("pending = %q, want the first request", m.pending)
	}
	if m.input.Value() != "second request" {
		t.Errorf("input should keep the unsent text, got %q", m.input.Value())
	}
}

func TestChat_BlankEnterIgnored(t *testing.T) {
	m, gw := newTestChat(models.NewFallback("Hello"))

	m, cmd := typeAndEnter(m, "   ")
	if cmd != nil || m.busy {
		t.Error("blank input should be ignored")
	}
	if gw.calls != 0 {
		t.Errorf("gateway calls = %d, want 0", gw.calls)
	}
}

func TestChat_Clear(t *testing.T) {
	m, _ := newTestChat(models.NewDelegation(models.SchedulerArgs{Intent: "book"}))

	m, cmd := typeAndEnter(m, "book an appointment")
	next, _ := m.Update(findTurn(t, cmd))
	m = next.(chatModel)
	if len(m.snap.Messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(m.snap.Messages))
	}

	m, _ = typeAndEnter(m, "clear")
	if len(m.snap.Messages) != 1 || m.snap.State.ActiveAgent != models.AgentNavigator {
		t.Errorf("clear should reset to the welcome state, got %+v", m.snap.State)
	}
}

func TestChat_Quit(t *testing.T) {
	m, _ := newTestChat(models.NewFallback("Hello"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}

	_, cmd = typeAndEnter(m, "exit")
	if cmd == nil {
		t.Fatal("exit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("exit should quit")
	}
}

func TestChat_InitialView(t *testing.T) {
	m, _ := newTestChat(models.NewFallback("Hello"))
	view := m.View()
	if !strings.Contains(view, "System Idle") {
		t.Error("initial view should show the idle panel")
	}
	if !strings.Contains(view, "Hospital System Navigator") {
		t.Error("initial view should show the welcome message")
	}
}
