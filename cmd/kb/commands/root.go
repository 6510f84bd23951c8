// ABOUTME: Root command wiring for the kb CLI
// ABOUTME: Registers subcommands and shared persistent flags
package commands

import (
	"github.com/spf13/cobra"
)

var (
	quiet        bool
	verbose      bool
	outputFormat string
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Local knowledge-base assistant",
		Long: `kb is a local retrieval-augmented knowledge-base assistant.

Documents are chunked, embedded via a local model server (Ollama by
default), and stored in a SQLite vector index. Questions are answered
by retrieving the most relevant passages and handing them to a
generation model together with the question.

Configuration comes from KB_* environment variables and an optional
.env file. KB_HOST selects the model endpoint, KB_MODEL and
KB_EMBEDDING_MODEL the models, KB_DB_PATH the index location.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format: table or json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewRemoveCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}
