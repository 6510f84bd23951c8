// ABOUTME: Tests for the ingest command argument validation
// ABOUTME: Verifies flag combinations are rejected before any work starts
package commands

import (
	"bytes"
	"testing"
)

func runIngestArgs(t *testing.T, args ...string) error {
	t.Helper()
	// Reset flag state shared across tests
	ingestID = ""
	ingestStdin = false

	cmd := NewIngestCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestIngestCmd_NoFiles(t *testing.T) {
	if err := runIngestArgs(t); err == nil {
		t.Error("expected error when no files are given")
	}
}

func TestIngestCmd_StdinRejectsFiles(t *testing.T) {
	if err := runIngestArgs(t, "--stdin", "--id", "doc", "extra.txt"); err == nil {
		t.Error("expected error for --stdin combined with file arguments")
	}
}

func TestIngestCmd_IDWithMultipleFiles(t *testing.T) {
	if err := runIngestArgs(t, "--id", "doc", "a.txt", "b.txt"); err == nil {
		t.Error("expected error for --id with multiple files")
	}
}
