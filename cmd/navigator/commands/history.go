// ABOUTME: History command lists recorded sessions or prints one transcript
// ABOUTME: Reads the local SQLite transcript database
package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/hospital-navigator/internal/models"
	"github.com/harper/hospital-navigator/internal/storage/sqlite"
)

var historyLimit int

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "Show recorded conversations",
		Long: `List recorded navigator sessions, most recent first, or print the
full transcript of one session.

Examples:
  navigator history
  navigator history --limit 25
  navigator history session_4f1c...`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Maximum sessions to list (0 for all)")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyLimit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", historyLimit)
	}

	db, store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if len(args) == 1 {
		msgs, err := store.ListMessages(args[0])
		if err != nil {
			return err
		}
		printTranscript(cmd.OutOrStdout(), msgs)
		return nil
	}

	sessions, err := store.ListSessions(historyLimit)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	printSessions(cmd.OutOrStdout(), store, sessions)
	return nil
}

func printSessions(out io.Writer, store *sqlite.TranscriptStore, sessions []sqlite.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No recorded sessions")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tMESSAGES\tUPDATED\tFIRST REQUEST")
	for _, s := range sessions {
		first := ""
		if msgs, err := store.ListMessages(s.ID); err == nil {
			for _, m := range msgs {
				if m.Role == models.RoleUser {
					first = truncate(singleLine(m.Content), 40)
					break
				}
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.ID, s.MessageCount, formatTime(s.UpdatedAt), first)
	}
	_ = w.Flush()
}

func printTranscript(out io.Writer, msgs []models.ConversationMessage) {
	if len(msgs) == 0 {
		fmt.Fprintln(out, "Session has no messages")
		return
	}
	for _, m := range msgs {
		speaker := "You"
		if m.Role == models.RoleModel {
			speaker = m.Agent.DisplayName()
		}
		fmt.Fprintf(out, "[%s] %s: %s\n", m.Timestamp.Local().Format("2006-01-02 15:04:05"), speaker, m.Content)
	}
}
