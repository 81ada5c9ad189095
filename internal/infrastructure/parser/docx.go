package parser

import (
	"archive/zip"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const wordDocumentPath = "word/document.xml"

// extractDOCX walks the WordprocessingML paragraph tree inside the .docx
// archive, emitting each paragraph's text followed by a newline.
func extractDOCX(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}
	defer archive.Close()

	var entry *zip.File
	for _, f := range archive.File {
		if f.Name == wordDocumentPath {
			entry = f
			break
		}
	}
	if entry == nil {
		return "", fmt.Errorf("%s not found in archive", wordDocumentPath)
	}

	rc, err := entry.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", wordDocumentPath, err)
	}
	defer rc.Close()

	doc, err := goquery.NewDocumentFromReader(rc)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", wordDocumentPath, err)
	}

	var b strings.Builder
	doc.Find(`w\:p`).Each(func(_ int, paragraph *goquery.Selection) {
		// The HTML parser ignores the self-closing slash on foreign
		// elements, so an empty <w:p/> stays open and adopts the following
		// paragraphs as children. Take only the runs whose nearest paragraph
		// is this one so each run is emitted exactly once.
		node := paragraph.Get(0)
		text := paragraph.Find(`w\:t`).FilterFunction(func(_ int, t *goquery.Selection) bool {
			return t.Closest(`w\:p`).Get(0) == node
		}).Text()
		b.WriteString(text)
		b.WriteString("\n")
	})

	return b.String(), nil
}
