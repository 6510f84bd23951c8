// ABOUTME: CLI command to ask questions against the knowledge base
// ABOUTME: Runs the full retrieve-assemble-generate flow and prints the answer
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askSources bool
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question",
		Long: `Ask a question against the knowledge base.

Embeds the question, retrieves the most similar passages, assembles
them into a bounded context, and asks the generation model for an
answer grounded in that context.

Examples:
  kb ask "What color is the sky?"
  kb ask --sources "How do I reset the device?"
  kb ask --format json "What is the refund policy?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().BoolVar(&askSources, "sources", false, "Show the source documents used")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	p, store, err := newPipeline()
	if err != nil {
		return err
	}
	defer store.Close()

	answer, err := p.Answer(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer.Text)

	if askSources && len(answer.Sources) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\nSources:\n")
		for _, src := range answer.Sources {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", src)
		}
	}

	return nil
}
