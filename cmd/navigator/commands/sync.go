// ABOUTME: Sync commands for mirroring transcripts to Charm cloud
// ABOUTME: Provides status, push, now, and wipe
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/hospital-navigator/internal/charm"
	"github.com/harper/hospital-navigator/internal/models"
	"github.com/harper/hospital-navigator/internal/storage/sqlite"
)

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Manage Charm cloud synchronization",
		Long: `Manage synchronization with Charm cloud.

Recorded transcripts live in the local SQLite database. 'sync push'
mirrors them into a Charm KV database so they are available on every
device linked to the same Charm account.`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncPushCmd())
	cmd.AddCommand(newSyncNowCmd())
	cmd.AddCommand(newSyncWipeCmd())

	return cmd
}

func openCharm() (*charm.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := charm.NewClient(charm.FromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Charm: %w", err)
	}
	return client, nil
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status and connection info",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := openCharm()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			out := cmd.OutOrStdout()
			id, err := client.ID()
			if err != nil {
				fmt.Fprintln(out, "Status: Not connected")
				fmt.Fprintln(out, "Check your Charm SSH keys and CHARM_HOST")
				return nil
			}

			sessions, err := client.ListSessions()
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Status: Connected")
			fmt.Fprintf(out, "User ID: %s\n", id)
			fmt.Fprintf(out, "Host: %s\n", client.Config().Host)
			fmt.Fprintf(out, "Database: %s\n", client.Config().DBName)
			fmt.Fprintf(out, "Mirrored sessions: %d\n", len(sessions))

			return nil
		},
	}
}

func newSyncPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push [session-id...]",
		Short: "Mirror recorded sessions to Charm cloud",
		Long: `Mirror recorded sessions to Charm cloud.

With no arguments every local session is pushed. Pushing a session
again overwrites its mirrored copy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			ids := args
			if len(ids) == 0 {
				sessions, err := store.ListSessions(0)
				if err != nil {
					return fmt.Errorf("listing sessions: %w", err)
				}
				for _, s := range sessions {
					ids = append(ids, s.ID)
				}
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded sessions to push")
				return nil
			}

			client, err := openCharm()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			pushed, err := pushSessions(client, store, ids)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d messages from %d sessions\n", pushed, len(ids))
			return nil
		},
	}
}

// transcriptPusher is the part of the charm client push needs
type transcriptPusher interface {
	PushTranscript(sessionID string, msgs []models.ConversationMessage) (int, error)
}

func pushSessions(client transcriptPusher, store *sqlite.TranscriptStore, ids []string) (int, error) {
	total := 0
	for _, id := range ids {
		msgs, err := store.ListMessages(id)
		if err != nil {
			return total, err
		}
		n, err := client.PushTranscript(id, msgs)
		if err != nil {
			return total, fmt.Errorf("pushing %s: %w", id, err)
		}
		total += n
	}
	return total, nil
}

func newSyncNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Force immediate sync with Charm cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := openCharm()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			fmt.Fprintln(cmd.OutOrStdout(), "Syncing...")
			if err := client.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Sync complete")
			return nil
		},
	}
}

func newSyncWipeCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Wipe the local Charm mirror",
		Long: `Completely wipe the local Charm mirror.

The local SQLite transcripts are not touched, and the cloud copy
re-syncs on next access.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				fmt.Fprintln(cmd.OutOrStdout(), "This will wipe the local Charm mirror!")
				fmt.Fprintln(cmd.OutOrStdout(), "Run with --confirm to proceed")
				return nil
			}

			client, err := openCharm()
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if err := client.Reset(); err != nil {
				return fmt.Errorf("failed to wipe data: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Local mirror wiped successfully")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the wipe operation")

	return cmd
}
