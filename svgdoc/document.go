// Package svgdoc reflows raw exported SVG markup into a line-oriented
// document: one balanced element span per line, with forced splits past a
// length cap. Later pipeline stages use line-scoped matching instead of a
// recursive parser, which the exporter's shallow output makes sufficient.
package svgdoc

import (
	"regexp"
	"strings"
)

// DefaultMaxLineLength caps a single line when an element never closes
// (the document root, long group runs).
const DefaultMaxLineLength = 8192

var tagRe = regexp.MustCompile(`<[^>]*>`)

// Document is an ordered sequence of markup lines, mutated in place by
// reconciliation and post-processing, then serialized.
type Document struct {
	Lines []string
}

// Retokenize splits raw markup into balanced single-element spans. The raw
// text may arrive as one long line or arbitrarily wrapped; concatenating the
// produced lines reconstructs it up to trimmed whitespace.
func Retokenize(raw string, maxLen int) *Document {
	if maxLen <= 0 {
		maxLen = DefaultMaxLineLength
	}
	doc := &Document{}
	lineStart := 0
	depth := 0

	emit := func(end int) {
		if line := strings.TrimSpace(raw[lineStart:end]); line != "" {
			doc.Lines = append(doc.Lines, line)
		}
		lineStart = end
	}

	for _, loc := range tagRe.FindAllStringIndex(raw, -1) {
		s, e := loc[0], loc[1]
		tag := raw[s:e]
		switch {
		case strings.HasPrefix(tag, "</"):
			depth--
			if depth <= 0 || e-lineStart > maxLen {
				emit(e)
				if depth < 0 {
					depth = 0
				}
			}
		case strings.HasSuffix(tag, "/>"),
			strings.HasPrefix(tag, "<?"),
			strings.HasPrefix(tag, "<!"):
			if depth <= 0 || e-lineStart > maxLen {
				emit(e)
			}
		default:
			// An opening tag past the cap starts its own line rather
			// than growing the current one further.
			if s-lineStart > maxLen {
				emit(s)
			}
			depth++
		}
	}
	emit(len(raw))
	return doc
}

// String serializes the document, one element span per line.
func (d *Document) String() string {
	return strings.Join(d.Lines, "\n") + "\n"
}

func (d *Document) Bytes() []byte {
	return []byte(d.String())
}
