// ABOUTME: CLI command to search indexed passages
// ABOUTME: Retrieves ranked passages by vector similarity without generation
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed passages",
		Long: `Search the knowledge base for passages similar to a query.

Embeds the query and ranks indexed chunks by cosine similarity. Shows
the raw retrieval results without asking the generation model.

Examples:
  kb search "sky color"
  kb search --limit 10 "error handling"
  kb search --format json "refund policy"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	query := args[0]

	p, store, err := newPipeline()
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := p.Search(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("searching passages: %w", err)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No passages found for query: %s\n", query)
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tDOCUMENT\tCHUNK\tPREVIEW\n")
	fmt.Fprintf(w, "-----\t--------\t-----\t-------\n")

	for _, result := range results {
		fmt.Fprintf(w, "%.3f\t%s\t%d\t%s\n",
			result.Score,
			truncate(result.DocumentID, 25),
			result.Seq,
			truncate(result.Text, 60))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}

	return nil
}
