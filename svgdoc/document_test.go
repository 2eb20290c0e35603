package svgdoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetokenizeBalancedSpans(t *testing.T) {
	doc := Retokenize(`<a><b></b></a><c></c>`, 0)
	assert.Equal(t, []string{"<a><b></b></a>", "<c></c>"}, doc.Lines)
}

func TestRetokenizeProcessingInstructions(t *testing.T) {
	raw := `<?xml version="1.0" encoding="UTF-8"?><!DOCTYPE svg><a></a>`
	doc := Retokenize(raw, 0)
	assert.Equal(t, []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<!DOCTYPE svg>`,
		`<a></a>`,
	}, doc.Lines)
}

func TestRetokenizeForcedSplit(t *testing.T) {
	doc := Retokenize(`<g><rect/><rect/><rect/></g>`, 10)
	assert.Equal(t, []string{"<g><rect/><rect/>", "<rect/></g>"}, doc.Lines)
}

// Concatenating the lines reproduces the input up to whitespace.
func TestRetokenizeLossless(t *testing.T) {
	raw := `<?xml version="1.0"?>
<svg width="100" height="50">
  <g id="axes">
    <rect x="0" y="0" width="100" height="50"/>
    <text x="1" y="2">hi &amp; bye</text>
  </g>
</svg>`
	doc := Retokenize(raw, 40)
	require.NotEmpty(t, doc.Lines)

	squash := func(s string) string {
		return strings.Join(strings.Fields(s), "")
	}
	assert.Equal(t, squash(raw), squash(strings.Join(doc.Lines, "")))
}

func TestRetokenizeTrimsLines(t *testing.T) {
	doc := Retokenize("   <a></a>\n\n  <b></b>  ", 0)
	assert.Equal(t, []string{"<a></a>", "<b></b>"}, doc.Lines)
}

func TestDocumentString(t *testing.T) {
	doc := &Document{Lines: []string{"<a></a>", "<b></b>"}}
	assert.Equal(t, "<a></a>\n<b></b>\n", doc.String())
	assert.Equal(t, []byte(doc.String()), doc.Bytes())
}

func TestParseCanvas(t *testing.T) {
	c, err := ParseCanvas(`<svg width="400" height="300"><g></g></svg>`)
	require.NoError(t, err)
	assert.Equal(t, Canvas{Width: 400, Height: 300}, c)
}

func TestParseCanvasUnits(t *testing.T) {
	c, err := ParseCanvas(`<svg width="360pt" height="240pt"></svg>`)
	require.NoError(t, err)
	assert.Equal(t, Canvas{Width: 360, Height: 240}, c)
}

func TestParseCanvasViewBoxFallback(t *testing.T) {
	c, err := ParseCanvas(`<svg viewBox="0 0 640 480"></svg>`)
	require.NoError(t, err)
	assert.Equal(t, Canvas{Width: 640, Height: 480}, c)
}

func TestParseCanvasNoSize(t *testing.T) {
	_, err := ParseCanvas(`<svg></svg>`)
	assert.Error(t, err)
}
