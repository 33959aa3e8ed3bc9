// ABOUTME: Ask command runs a single navigator turn from the command line
// ABOUTME: Prints the navigator's reply and the active department panel
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/hospital-navigator/internal/dispatch"
	"github.com/harper/hospital-navigator/internal/models"
	"github.com/harper/hospital-navigator/internal/panels"
)

var askJSON bool

// askResult is the --json output of ask
type askResult struct {
	Reply     string            `json:"reply"`
	Agent     models.AgentType  `json:"agent"`
	Delegated bool              `json:"delegated"`
	Arguments map[string]string `json:"arguments,omitempty"`
	Status    models.Status     `json:"status"`
	Session   string            `json:"session,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Route a single request",
		Long: `Route a single request to the right department and show the result.

Examples:
  navigator ask "I need my lab results from last week"
  navigator ask book a cardiology appointment for next Monday
  navigator ask --json "why was my claim denied?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().BoolVar(&askJSON, "json", false, "Print the result as JSON")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")

	a, err := newApp(cmd.ErrOrStderr(), !noStore)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	turn, err := a.navigator.Submit(cmd.Context(), message)
	if err != nil {
		return err
	}

	if askJSON {
		if err := writeAskJSON(cmd, turn, a.sessionID()); err != nil {
			return err
		}
	} else {
		writeAskText(cmd, turn)
	}

	return turn.Err
}

func lastMessage(snap dispatch.Snapshot) models.ConversationMessage {
	return snap.Messages[len(snap.Messages)-1]
}

func writeAskText(cmd *cobra.Command, turn dispatch.Turn) {
	out := cmd.OutOrStdout()
	reply := lastMessage(turn.Snapshot)
	fmt.Fprintf(out, "%s: %s\n\n", reply.Agent.DisplayName(), reply.Content)
	fmt.Fprint(out, panels.Plain(panels.Build(turn.Snapshot.State)))
}

func writeAskJSON(cmd *cobra.Command, turn dispatch.Turn, session string) error {
	state := turn.Snapshot.State
	result := askResult{
		Reply:     lastMessage(turn.Snapshot).Content,
		Agent:     state.ActiveAgent,
		Delegated: turn.Decision.IsDelegation(),
		Status:    state.Status,
		Session:   session,
	}
	if state.ContextData != nil {
		result.Arguments = state.ContextData.Fields()
	}
	if turn.Err != nil {
		result.Error = turn.Err.Error()
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
