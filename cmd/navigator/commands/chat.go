// ABOUTME: Chat command runs the interactive navigator TUI
// ABOUTME: Bubble Tea conversation view with the active department panel alongside
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/harper/hospital-navigator/internal/dispatch"
	"github.com/harper/hospital-navigator/internal/models"
	"github.com/harper/hospital-navigator/internal/panels"
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive navigator session",
		Long: `Start an interactive navigator session.

Type a request and press enter. While a request is being routed the
input is locked. Type 'clear' to start over, 'exit' or ctrl+c to quit.`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	// the TUI owns the terminal; only errors reach stderr
	a, err := newApp(cmd.ErrOrStderr(), !noStore)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	p := tea.NewProgram(newChatModel(cmd.Context(), a.navigator, a.sessionID()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running chat: %w", err)
	}
	return nil
}

// turnRunner is the navigator surface the TUI drives
type turnRunner interface {
	Submit(ctx context.Context, text string) (dispatch.Turn, error)
	Snapshot() dispatch.Snapshot
	Reset() error
}

type turnMsg struct {
	turn dispatch.Turn
	err  error
}

var (
	userStyle       = lipgloss.NewStyle().Bold(true)
	navigatorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	delegationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle      = lipgloss.NewStyle().Faint(true)
)

type chatModel struct {
	ctx     context.Context
	nav     turnRunner
	session string

	input   textinput.Model
	spin    spinner.Model
	snap    dispatch.Snapshot
	pending string
	busy    bool
	status  string
	width   int
	height  int
}

func newChatModel(ctx context.Context, nav turnRunner, session string) chatModel {
	if ctx == nil {
		ctx = context.Background()
	}

	in := textinput.New()
	in.Placeholder = "Describe what you need"
	in.Prompt = "You> "
	in.Focus()
	in.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	return chatModel{
		ctx:     ctx,
		nav:     nav,
		session: session,
		input:   in,
		spin:    s,
		snap:    nav.Snapshot(),
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) submit(text string) tea.Cmd {
	return func() tea.Msg {
		turn, err := m.nav.Submit(m.ctx, text)
		return turnMsg{turn: turn, err: err}
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(m.conversationWidth()-6, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if m.busy {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}

			switch strings.ToLower(text) {
			case "exit", "quit":
				return m, tea.Quit
			case "clear":
				if err := m.nav.Reset(); err != nil {
					m.status = err.Error()
					return m, nil
				}
				m.snap = m.nav.Snapshot()
				m.status = ""
				m.input.SetValue("")
				return m, nil
			}

			m.busy = true
			m.pending = text
			m.status = ""
			m.input.SetValue("")
			m.input.Blur()
			return m, tea.Batch(m.spin.Tick, m.submit(text))
		}

	case turnMsg:
		m.busy = false
		m.pending = ""
		m.snap = msg.turn.Snapshot
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		return m, m.input.Focus()

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) conversationWidth() int {
	if m.width == 0 {
		return 80
	}
	return max(m.width-panelWidth-2, 30)
}

const panelWidth = 44

func renderMessage(msg models.ConversationMessage) string {
	if msg.Role == models.RoleUser {
		return userStyle.Render("You:") + " " + msg.Content
	}
	style := navigatorStyle
	if msg.IsDelegation {
		style = delegationStyle
	} else if msg.Content == dispatch.ErrorText {
		style = errorStyle
	}
	return style.Render(msg.Agent.DisplayName()+":") + " " + msg.Content
}

func (m chatModel) View() string {
	width := m.conversationWidth()
	wrap := lipgloss.NewStyle().Width(width)

	var lines []string
	for _, msg := range m.snap.Messages {
		lines = append(lines, wrap.Render(renderMessage(msg)), "")
	}
	if m.busy {
		lines = append(lines,
			wrap.Render(userStyle.Render("You:")+" "+m.pending), "",
			m.spin.View()+" Identifying intent...", "")
	}

	// keep the tail of the conversation on screen
	if m.height > 0 {
		budget := max(m.height-4, 1)
		var flat []string
		for _, l := range lines {
			flat = append(flat, strings.Split(l, "\n")...)
		}
		if len(flat) > budget {
			flat = flat[len(flat)-budget:]
		}
		lines = flat
	}

	left := strings.Join(lines, "\n")
	right := panels.Render(panels.Build(m.snap.State), panelWidth)
	body := lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(width).Render(left), "  ", right)

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	footer := "enter to send • 'clear' to reset • ctrl+c to quit"
	if m.session != "" {
		footer += " • session " + m.session
	}
	if m.status != "" {
		footer = errorStyle.Render(m.status)
	}
	b.WriteString(faintStyle.Render(footer))
	return b.String()
}
