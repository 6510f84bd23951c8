// ABOUTME: Loads source files into Documents for ingestion
// ABOUTME: Supports plain text, markdown, and PDF (text extraction)
package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/kb-standalone/internal/models"
	"github.com/ledongthuc/pdf"
)

// Load reads the file at path into a Document. The document ID defaults
// to the file's base name, which makes re-ingesting an updated file
// replace its prior chunks.
func Load(path string) (models.Document, error) {
	return LoadWithID(path, filepath.Base(path))
}

// LoadWithID reads the file at path into a Document with an explicit ID.
func LoadWithID(path, id string) (models.Document, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = extractPDF(path)
	case ".txt", ".md", ".markdown", "":
		text, err = readFile(path)
	default:
		return models.Document{}, fmt.Errorf("unsupported file type %q (want .txt, .md, or .pdf)", filepath.Ext(path))
	}
	if err != nil {
		return models.Document{}, fmt.Errorf("loading %s: %w", path, err)
	}

	if strings.TrimSpace(text) == "" {
		return models.Document{}, fmt.Errorf("loading %s: no extractable text", path)
	}

	return models.Document{ID: id, Text: text}, nil
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	body, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return buf.String(), nil
}
