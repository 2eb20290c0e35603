// Package verify runs best-effort checks on the backend-produced PDF.
// Every finding is a warning; a figure that fails verification is still a
// figure.
package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDF validates the document structure and scans its text for leaked
// placeholders, returning warnings for anything suspicious.
func PDF(path string, placeholders []string) []string {
	var warnings []string

	f, err := os.Open(path)
	if err != nil {
		return []string{fmt.Sprintf("cannot open %s for verification: %v", path, err)}
	}
	ctx, err := pdfapi.ReadContext(f, model.NewDefaultConfiguration())
	f.Close()
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("%s is not a readable PDF: %v", path, err))
		return warnings
	}
	if ctx.PageCount != 1 {
		warnings = append(warnings, fmt.Sprintf("%s has %d pages; a converted figure should have one", path, ctx.PageCount))
	}

	text, err := extractText(path)
	if err != nil {
		// Text extraction failing is not itself a defect: the whole
		// point of the conversion is that label text ends up in the
		// companion tex file, not the PDF.
		return warnings
	}
	for _, leaked := range leakedPlaceholders(text, placeholders) {
		warnings = append(warnings, fmt.Sprintf("placeholder %q leaked into %s; its label was not restored", leaked, path))
	}
	return warnings
}

func extractText(path string) (string, error) {
	f, reader, err := ledongthuc.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// leakedPlaceholders reports placeholders appearing verbatim in text.
// Short single-letter placeholders are skipped: one-character hits in a
// rendered document prove nothing.
func leakedPlaceholders(text string, placeholders []string) []string {
	var leaked []string
	for _, p := range placeholders {
		if len(p) < 2 {
			continue
		}
		if strings.Contains(text, p) {
			leaked = append(leaked, p)
		}
	}
	return leaked
}
