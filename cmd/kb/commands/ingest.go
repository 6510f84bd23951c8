// ABOUTME: CLI command to ingest documents into the knowledge base
// ABOUTME: Loads files or stdin text, chunks, embeds, and indexes them
package commands

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harper/kb-standalone/internal/loader"
	"github.com/harper/kb-standalone/internal/models"
)

var (
	ingestID    string
	ingestStdin bool
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [file...]",
		Short: "Add documents to the knowledge base",
		Long: `Add one or more documents to the knowledge base.

Each file is split into overlapping chunks, embedded, and stored in
the vector index. Supported formats: .txt, .md, .pdf. Re-ingesting a
document with the same ID replaces its previous chunks.

Examples:
  kb ingest notes.txt manual.pdf
  kb ingest --id policies docs/policies.md
  cat report.txt | kb ingest --stdin --id report`,
		RunE: runIngest,
	}

	cmd.Flags().StringVar(&ingestID, "id", "", "Document ID (defaults to the file base name, or a generated ID for stdin)")
	cmd.Flags().BoolVar(&ingestStdin, "stdin", false, "Read document text from stdin")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestStdin {
		if len(args) > 0 {
			return fmt.Errorf("--stdin cannot be combined with file arguments")
		}
	} else if len(args) == 0 {
		return fmt.Errorf("no files given (or use --stdin)")
	}
	if ingestID != "" && len(args) > 1 {
		return fmt.Errorf("--id only applies to a single document")
	}

	p, store, err := newPipeline()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	if ingestStdin {
		text, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		if ingestID == "" {
			ingestID = uuid.New().String()
		}
		chunks, err := p.Ingest(ctx, models.Document{ID: ingestID, Text: string(text)})
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", ingestID, err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Ingested %s (%d chunks)\n", ingestID, chunks)
		}
		return nil
	}

	for _, path := range args {
		var doc models.Document
		if ingestID != "" {
			doc, err = loader.LoadWithID(path, ingestID)
		} else {
			doc, err = loader.Load(path)
		}
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}

		chunks, err := p.Ingest(ctx, doc)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", doc.ID, err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Ingested %s (%d chunks)\n", doc.ID, chunks)
		}
	}

	return nil
}
