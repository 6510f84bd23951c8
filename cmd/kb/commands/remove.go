// ABOUTME: CLI command to remove documents from the knowledge base
// ABOUTME: Deletes a document and all of its indexed chunks
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRemoveCmd creates the remove command
func NewRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <document-id>",
		Short: "Remove a document",
		Long: `Remove a document and all of its chunks from the knowledge base.

Removing an unknown document ID is not an error.

Examples:
  kb remove notes.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runRemove,
	}

	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	documentID := args[0]

	p, store, err := newPipeline()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := p.Remove(cmd.Context(), documentID); err != nil {
		return fmt.Errorf("removing %s: %w", documentID, err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", documentID)
	}

	return nil
}
