// ABOUTME: CLI command to list indexed documents
// ABOUTME: Shows document IDs and chunk counts in table or JSON form
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed documents",
		Long: `List the documents currently in the knowledge base.

Examples:
  kb list
  kb list --format json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	p, store, err := newPipeline()
	if err != nil {
		return err
	}
	defer store.Close()

	docs, err := p.Documents(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(docs) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No documents indexed")
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DOCUMENT\tCHUNKS\n")
	fmt.Fprintf(w, "--------\t------\n")
	for _, doc := range docs {
		fmt.Fprintf(w, "%s\t%d\n", doc.ID, doc.Chunks)
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d document(s) indexed\n", len(docs))
	}

	return nil
}
