// Package reconcile matches exported text nodes back to their catalog
// records and rewrites them in place: original (escaped, optionally styled)
// text, zeroed x baseline, anchor-resolved y offset, and a text-anchor
// style directive.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/flanksource/figtex/api"
)

// FontSizeMode controls when the formatter wraps text in a size directive.
type FontSizeMode string

const (
	// FontSizeAuto wraps only labels whose size differs from the run
	// baseline.
	FontSizeAuto FontSizeMode = "auto"
	// FontSizeFixed assumes a uniform document size and never wraps.
	FontSizeFixed FontSizeMode = "fixed"
	// FontSizeNone emits no size directives at all.
	FontSizeNone FontSizeMode = "none"
	// FontSizeExplicit wraps every label with a caller-chosen size.
	FontSizeExplicit FontSizeMode = "explicit"
)

// ReplacePair is one literal substitution applied to original text before
// any escaping.
type ReplacePair struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

var (
	metaEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"'", "&apos;",
		`"`, "&quot;",
	)
	backendEscaper       = strings.NewReplacer(`\`, `\\`)
	backendDollarEscaper = strings.NewReplacer(`\`, `\\`, `$`, `\$`)
)

// EscapeMarkup converts the five markup metacharacters to entity form.
func EscapeMarkup(s string) string {
	return metaEscaper.Replace(s)
}

// Formatter converts original label text into markup-safe, optionally
// styled output text.
type Formatter struct {
	Mode         FontSizeMode
	BaseFontSize float64
	ExplicitSize float64
	// NeutralGray is treated as "uncolored" alongside the implicit black
	// default.
	NeutralGray  api.RGB
	EscapeDollar bool
	Replacements []ReplacePair
}

// Format renders a record's output text. The sequencing matters: literal
// replacements run on raw text, metacharacter escaping next, and backend
// character escaping runs last, on the label text alone, so the backslashes
// of the color and size directives are never re-escaped.
func (f *Formatter) Format(r *api.Label) string {
	text := r.Original
	for _, rp := range f.Replacements {
		text = strings.ReplaceAll(text, rp.From, rp.To)
	}
	inner := EscapeMarkup(text)

	prefix, suffix := "", ""
	if !r.Color.Equal(api.Black) && !r.Color.Equal(f.NeutralGray) {
		prefix = fmt.Sprintf(`\textcolor[rgb]{%g,%g,%g}{`, r.Color.R, r.Color.G, r.Color.B)
		suffix = `}`
	}
	if size, ok := f.directiveSize(r); ok {
		prefix = prefix + fmt.Sprintf(`{\fontsize{%g}{%g}\selectfont `, size, size*1.2)
		suffix = `}` + suffix
	}

	if f.EscapeDollar {
		inner = backendDollarEscaper.Replace(inner)
	} else {
		inner = backendEscaper.Replace(inner)
	}
	return prefix + inner + suffix
}

func (f *Formatter) directiveSize(r *api.Label) (float64, bool) {
	switch f.Mode {
	case FontSizeExplicit:
		if f.ExplicitSize > 0 {
			return f.ExplicitSize, true
		}
		return 0, false
	case FontSizeFixed, FontSizeNone:
		return 0, false
	default:
		if r.FontSize > 0 && f.BaseFontSize > 0 && r.FontSize != f.BaseFontSize {
			return r.FontSize, true
		}
		return 0, false
	}
}
