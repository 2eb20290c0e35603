package reconcile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flanksource/figtex/api"
	"github.com/flanksource/figtex/labels"
	"github.com/flanksource/figtex/svgdoc"
)

func docOf(lines ...string) *svgdoc.Document {
	return &svgdoc.Document{Lines: lines}
}

func TestRewriteRestoresOriginal(t *testing.T) {
	c := labels.NewCatalog()
	r := c.Register(api.Label{Original: "Velocity <raw>", Kind: api.PlainText, FontSize: 10, Anchor: api.AnchorStart}, labels.Sanitize)
	require.Equal(t, "Velocity .raw.", r.Placeholder)
	c.Finalize(func(l *api.Label) string { return EscapeMarkup(l.Original) })

	doc := docOf(`<text x="5" y="20" style="font-size:10px">Velocity .raw.</text>`)
	stats := NewRewriter(c, Config{}).Rewrite(doc)

	assert.Equal(t, Stats{TextNodes: 1, Matched: 1}, stats)
	assert.True(t, r.Found)
	line := doc.Lines[0]
	assert.Contains(t, line, `x="0"`)
	assert.Contains(t, line, `y="31.2"`)
	assert.Contains(t, line, "text-anchor:start")
	assert.Contains(t, line, ">Velocity &lt;raw&gt;</text>")
}

func TestRewriteAnchorOffsets(t *testing.T) {
	tests := []struct {
		anchor api.Anchor
		wantY  string
	}{
		{api.AnchorStart, `y="31.2"`},
		{api.AnchorMiddle, `y="24.4"`},
		{api.AnchorEnd, `y="17.6"`},
	}
	for _, tt := range tests {
		t.Run(string(tt.anchor), func(t *testing.T) {
			c := labels.NewCatalog()
			c.Register(api.Label{Original: "p", FontSize: 10, Anchor: tt.anchor}, labels.Sanitize)
			doc := docOf(`<text x="5" y="20">p</text>`)
			NewRewriter(c, Config{}).Rewrite(doc)
			assert.Contains(t, doc.Lines[0], tt.wantY)
			assert.Contains(t, doc.Lines[0], "text-anchor:"+string(tt.anchor))
		})
	}
}

func TestRewriteYCorrFactor(t *testing.T) {
	c := labels.NewCatalog()
	c.Register(api.Label{Original: "p", FontSize: 10, Anchor: api.AnchorStart}, labels.Sanitize)
	doc := docOf(`<text x="5" y="20">p</text>`)
	NewRewriter(c, Config{YCorrFactor: 0.5}).Rewrite(doc)
	assert.Contains(t, doc.Lines[0], `y="25.6"`)
}

// Text the catalog never issued keeps its content but still gets the default
// anchor treatment.
func TestRewriteUnmanagedNode(t *testing.T) {
	c := labels.NewCatalog()
	doc := docOf(`<text x="3" y="10" style="font-size:12px">Generated</text>`)
	stats := NewRewriter(c, Config{}).Rewrite(doc)

	assert.Equal(t, Stats{TextNodes: 1, Unmanaged: 1}, stats)
	line := doc.Lines[0]
	assert.Contains(t, line, ">Generated</text>")
	assert.Contains(t, line, `x="0"`)
	assert.Contains(t, line, `y="23.44"`)
	assert.Contains(t, line, "text-anchor:start")
}

func TestRewriteUnmanagedDefaultFontSize(t *testing.T) {
	c := labels.NewCatalog()
	doc := docOf(`<text x="3" y="10">hint</text>`)
	NewRewriter(c, Config{}).Rewrite(doc)
	assert.Contains(t, doc.Lines[0], `y="21.2"`)
}

// textPath elements are not text nodes and must pass through untouched.
func TestRewriteIgnoresTextPath(t *testing.T) {
	c := labels.NewCatalog()
	c.Register(api.Label{Original: "curve", FontSize: 10, Anchor: api.AnchorStart}, labels.Sanitize)

	line := `<textPath href="#p" startOffset="10">curve</textPath>`
	doc := docOf(line)
	stats := NewRewriter(c, Config{}).Rewrite(doc)

	assert.Equal(t, Stats{}, stats)
	assert.Equal(t, line, doc.Lines[0])
}

func TestRewriteMultipleNodesPerLine(t *testing.T) {
	c := labels.NewCatalog()
	a := c.Register(api.Label{Original: "alpha", FontSize: 10, Anchor: api.AnchorStart}, labels.Sanitize)
	b := c.Register(api.Label{Original: "beta", FontSize: 10, Anchor: api.AnchorEnd}, labels.Sanitize)

	doc := docOf(`<g><text x="1" y="5">alpha</text><text x="9" y="5">beta</text></g>`)
	stats := NewRewriter(c, Config{}).Rewrite(doc)

	assert.Equal(t, 2, stats.Matched)
	assert.True(t, a.Found)
	assert.True(t, b.Found)
	line := doc.Lines[0]
	assert.Contains(t, line, ">alpha</text>")
	assert.Contains(t, line, ">beta</text>")
	assert.Contains(t, line, "text-anchor:start")
	assert.Contains(t, line, "text-anchor:end")
}

// Padded placeholders keep the raw entry text, so the exporter entity-escapes
// them; lookup must try the unescaped form.
func TestRewriteEntityUnescapedLookup(t *testing.T) {
	c := labels.NewCatalog()
	r := c.Register(api.Label{Original: "A & B", Anchor: api.AnchorStart, FontSize: 10}, labels.Padded)
	require.Equal(t, "A & B.......", r.Placeholder)

	doc := docOf(`<text x="0" y="0">A &amp; B.......</text>`)
	stats := NewRewriter(c, Config{}).Rewrite(doc)
	assert.Equal(t, 1, stats.Matched)
	assert.True(t, r.Found)
}

// Exporters sometimes extend a placeholder with trailing junk; the longest
// placeholder prefix wins.
func TestRewritePartialMatch(t *testing.T) {
	c := labels.NewCatalog()
	c.Register(api.Label{Original: "ab", Anchor: api.AnchorStart, FontSize: 10}, labels.Sanitize)
	long := c.Register(api.Label{Original: "abc", Anchor: api.AnchorStart, FontSize: 10}, labels.Sanitize)
	c.Finalize(func(l *api.Label) string { return EscapeMarkup(l.Original) })

	doc := docOf(`<text x="0" y="0">abc-2</text>`)
	stats := NewRewriter(c, Config{}).Rewrite(doc)

	assert.Equal(t, 1, stats.Matched)
	assert.True(t, long.Found)
	assert.Contains(t, doc.Lines[0], ">abc</text>")
}

func TestRewriteAutoAnchor(t *testing.T) {
	est := RegressionEstimator{Slope: 1, Intercept: 0}

	tests := []struct {
		x    float64
		want api.Anchor
	}{
		// "ab" at size 10 estimates 20 wide: x=-10 sits at minus half.
		{-10, api.AnchorMiddle},
		// x=-20 sits at minus the full width.
		{-20, api.AnchorEnd},
	}
	for _, tt := range tests {
		c := labels.NewCatalog()
		r := c.Register(api.Label{Original: "ab", FontSize: 10, Anchor: api.AnchorAuto}, labels.Sanitize)
		doc := docOf(fmt.Sprintf(`<text x="%g" y="0">ab</text>`, tt.x))
		NewRewriter(c, Config{Estimator: est}).Rewrite(doc)
		assert.Contains(t, doc.Lines[0], "text-anchor:"+string(tt.want))
		// The decision is persisted so repeats of the placeholder agree.
		assert.Equal(t, tt.want, r.Anchor)
	}
}

func TestRewriteSquish(t *testing.T) {
	c := labels.NewCatalog()
	c.Register(api.Label{Original: "p", FontSize: 10, Anchor: api.AnchorStart}, labels.Sanitize)
	doc := docOf(`<text x="1" y="2" transform="rotate(-90)">p</text>`)
	NewRewriter(c, Config{SquishedText: true}).Rewrite(doc)
	assert.Contains(t, doc.Lines[0], `transform="scale(0.8,1) rotate(-90)"`)
}

func TestResolveAutoAnchorTieBreaksToMiddle(t *testing.T) {
	est := RegressionEstimator{Slope: 1, Intercept: 0}
	// x=0: both hypotheses are off by the same direction; |half| < |full|.
	assert.Equal(t, api.AnchorMiddle, resolveAutoAnchor(0, "ab", 10, est))
}

func TestStyleFontSize(t *testing.T) {
	assert.Equal(t, 12.0, styleFontSize("fill:#000;font-size:12px"))
	assert.Equal(t, 10.0, styleFontSize("fill:#000"))
	assert.Equal(t, 10.0, styleFontSize(""))
}
