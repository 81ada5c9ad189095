// Package parser extracts plain text from uploaded documents
// (PDF, DOCX and plain-text files).
package parser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"realm/internal/ports"
)

// ExtractionError reports an unsupported or unparsable document, carrying
// the underlying cause. Callers may substitute Error() for the document
// content so a failed extraction degrades the analysis instead of aborting it.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("error processing document %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// DocumentExtractor dispatches to a format-specific extractor by extension.
// Anything that is not PDF or DOCX is read as UTF-8 plain text verbatim.
type DocumentExtractor struct {
	logger *slog.Logger
}

var _ ports.Extractor = (*DocumentExtractor)(nil)

// NewDocumentExtractor wires a logger; nil falls back to the default logger.
func NewDocumentExtractor(logger *slog.Logger) *DocumentExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentExtractor{logger: logger}
}

// Extract converts the file at path into a single text payload.
func (d *DocumentExtractor) Extract(ctx context.Context, path string) (string, error) {
	var (
		text string
		err  error
	)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		text, err = extractPDF(path)
	case ".docx", ".doc":
		text, err = extractDOCX(path)
	default:
		var raw []byte
		raw, err = os.ReadFile(path)
		text = string(raw)
	}

	if err != nil {
		d.logger.Error("document extraction failed", "path", path, "error", err)
		return "", &ExtractionError{Path: path, Err: err}
	}

	d.logger.Info("processed document", "path", path, "format", ext, "chars", len(text))
	return text, nil
}
