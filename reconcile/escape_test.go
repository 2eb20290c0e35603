package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flanksource/figtex/api"
)

func TestEscapeMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A & B < 3>", "A &amp; B &lt; 3&gt;"},
		{`it's "fine"`, "it&apos;s &quot;fine&quot;"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeMarkup(tt.in))
	}
}

func TestFormatPlain(t *testing.T) {
	f := &Formatter{Mode: FontSizeNone, NeutralGray: api.NeutralGray}
	got := f.Format(&api.Label{Original: "A & B < 3>", Color: api.Black})
	assert.Equal(t, "A &amp; B &lt; 3&gt;", got)
}

func TestFormatBackslash(t *testing.T) {
	f := &Formatter{Mode: FontSizeNone, NeutralGray: api.NeutralGray}
	got := f.Format(&api.Label{Original: `\alpha`})
	assert.Equal(t, `\\alpha`, got)
}

func TestFormatDollar(t *testing.T) {
	f := &Formatter{Mode: FontSizeNone, NeutralGray: api.NeutralGray, EscapeDollar: true}
	got := f.Format(&api.Label{Original: `$x$`})
	assert.Equal(t, `\$x\$`, got)
}

// The color directive's own backslash must come through single even when the
// label text needs backslash escaping.
func TestFormatColorWrap(t *testing.T) {
	f := &Formatter{Mode: FontSizeNone, NeutralGray: api.NeutralGray}
	got := f.Format(&api.Label{Original: `\x`, Color: api.RGB{R: 1}})
	assert.Equal(t, `\textcolor[rgb]{1,0,0}{\\x}`, got)
}

func TestFormatColorSkipsNeutral(t *testing.T) {
	f := &Formatter{Mode: FontSizeNone, NeutralGray: api.NeutralGray}
	assert.Equal(t, "tick", f.Format(&api.Label{Original: "tick", Color: api.NeutralGray}))
	assert.Equal(t, "tick", f.Format(&api.Label{Original: "tick", Color: api.Black}))
}

func TestFormatFontSizeAuto(t *testing.T) {
	f := &Formatter{Mode: FontSizeAuto, BaseFontSize: 10, NeutralGray: api.NeutralGray}

	// At the baseline: no directive.
	assert.Equal(t, "title", f.Format(&api.Label{Original: "title", FontSize: 10}))

	// Off the baseline: wrapped with 1.2x leading.
	got := f.Format(&api.Label{Original: "title", FontSize: 14})
	assert.Equal(t, `{\fontsize{14}{16.8}\selectfont title}`, got)
}

func TestFormatFontSizeExplicit(t *testing.T) {
	f := &Formatter{Mode: FontSizeExplicit, ExplicitSize: 9, NeutralGray: api.NeutralGray}
	got := f.Format(&api.Label{Original: "x", FontSize: 14})
	assert.Equal(t, `{\fontsize{9}{10.8}\selectfont x}`, got)
}

func TestFormatColorAndSizeNesting(t *testing.T) {
	f := &Formatter{Mode: FontSizeAuto, BaseFontSize: 10, NeutralGray: api.NeutralGray}
	got := f.Format(&api.Label{Original: "w", FontSize: 12, Color: api.RGB{B: 1}})
	assert.Equal(t, `\textcolor[rgb]{0,0,1}{{\fontsize{12}{14.4}\selectfont w}}`, got)
}

// Literal replacements run on the raw text, before any escaping.
func TestFormatReplacements(t *testing.T) {
	f := &Formatter{
		Mode:         FontSizeNone,
		NeutralGray:  api.NeutralGray,
		Replacements: []ReplacePair{{From: "&", To: "and"}},
	}
	assert.Equal(t, "A and B", f.Format(&api.Label{Original: "A & B"}))
}
