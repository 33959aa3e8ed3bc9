// ABOUTME: Root CLI command and global flags for the navigator
// ABOUTME: Registers subcommands; verbose and quiet are mutually exclusive
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	noStore bool
)

const banner = `
     ███
 ███████████    Hospital System Navigator
     ███
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "navigator",
		Short: "Route hospital requests to the right department agent",
		Long: banner + `
Describe what you need in plain language and the navigator hands the
request to the right department: Medical Records, Billing & Insurance,
Patient Information, or the Appointment Scheduler.

Routing uses an OpenAI-compatible model with function calling. Set
OPENAI_API_KEY (and optionally OPENAI_BASE_URL, NAVIGATOR_MODEL).

Conversations are logged to a local SQLite database unless --no-store
is given, and can be mirrored to Charm cloud with 'navigator sync push'.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	cmd.PersistentFlags().BoolVar(&noStore, "no-store", false, "Do not record the conversation")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
