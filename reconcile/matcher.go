package reconcile

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/flanksource/commons/logger"

	"github.com/flanksource/figtex/api"
	"github.com/flanksource/figtex/labels"
	"github.com/flanksource/figtex/svgdoc"
)

// DefaultSquishFactor is the horizontal scale applied to matched text when
// squishing is requested.
const DefaultSquishFactor = 0.8

// unmanagedFontSize is assumed when a node outside the catalog declares no
// font-size of its own.
const unmanagedFontSize = 10.0

var (
	textNodeRe  = regexp.MustCompile(`(?s)<text\b([^>]*)>(.*?)</text>`)
	xAttrRe     = regexp.MustCompile(`\bx="([^"]*)"`)
	yAttrRe     = regexp.MustCompile(`\by="([^"]*)"`)
	styleAttrRe = regexp.MustCompile(`\bstyle="([^"]*)"`)
	transformRe = regexp.MustCompile(`\btransform="([^"]*)"`)
	fontSizeRe  = regexp.MustCompile(`font-size:\s*([0-9.]+)`)

	entityUnescaper = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&apos;", "'",
		"&#39;", "'",
		"&quot;", `"`,
		"&#34;", `"`,
	)
)

// Config tunes the rewrite pass.
type Config struct {
	// YCorrFactor scales the anchor baseline offsets. 1.0 applies them
	// as calibrated.
	YCorrFactor  float64
	SquishedText bool
	SquishFactor float64
	Estimator    WidthEstimator
}

// Stats summarizes one rewrite pass over a document.
type Stats struct {
	TextNodes int
	Matched   int
	Unmanaged int
}

// Rewriter walks a retokenized document and rewrites every text node.
type Rewriter struct {
	catalog *labels.Catalog
	cfg     Config
	log     logger.Logger
}

func NewRewriter(catalog *labels.Catalog, cfg Config) *Rewriter {
	if cfg.YCorrFactor == 0 {
		cfg.YCorrFactor = 1.0
	}
	if cfg.Estimator == nil {
		cfg.Estimator = DefaultEstimator
	}
	if cfg.SquishedText && cfg.SquishFactor == 0 {
		cfg.SquishFactor = DefaultSquishFactor
	}
	return &Rewriter{
		catalog: catalog,
		cfg:     cfg,
		log:     logger.GetLogger("reconcile"),
	}
}

// Rewrite mutates the document in place and returns pass statistics.
// Matches inside a line are processed right to left so earlier rewrites do
// not shift the offsets of matches still pending.
func (rw *Rewriter) Rewrite(doc *svgdoc.Document) Stats {
	var stats Stats
	for i, line := range doc.Lines {
		locs := textNodeRe.FindAllStringSubmatchIndex(line, -1)
		for j := len(locs) - 1; j >= 0; j-- {
			loc := locs[j]
			attrs := line[loc[2]:loc[3]]
			content := line[loc[4]:loc[5]]
			line = line[:loc[0]] + rw.rewriteNode(attrs, content, &stats) + line[loc[1]:]
		}
		doc.Lines[i] = line
	}
	return stats
}

// lookup resolves a node's content to a catalog record: exact placeholder
// equality first, then the entity-unescaped form, then a best-effort prefix
// match for content the exporter extended past the placeholder.
func (rw *Rewriter) lookup(content string) (*api.Label, bool) {
	if r, ok := rw.catalog.Lookup(content); ok {
		return r, true
	}
	unescaped := entityUnescaper.Replace(content)
	if r, ok := rw.catalog.Lookup(unescaped); ok {
		return r, true
	}
	var best *api.Label
	for _, r := range rw.catalog.Records() {
		if strings.HasPrefix(unescaped, r.Placeholder) {
			if best == nil || len(r.Placeholder) > len(best.Placeholder) {
				best = r
			}
		}
	}
	if best != nil {
		rw.log.Debugf("partial match: content %q resolved to placeholder %q", content, best.Placeholder)
		return best, true
	}
	return nil, false
}

func (rw *Rewriter) rewriteNode(attrs, content string, stats *Stats) string {
	stats.TextNodes++

	style := ""
	if m := styleAttrRe.FindStringSubmatch(attrs); m != nil {
		style = m[1]
	}
	x := attrFloat(attrs, xAttrRe)
	y := attrFloat(attrs, yAttrRe)

	anchor := api.AnchorStart
	fontSize := styleFontSize(style)
	newContent := content

	if record, ok := rw.lookup(content); ok {
		record.Found = true
		stats.Matched++
		if record.FontSize > 0 {
			fontSize = record.FontSize
		}
		anchor = record.Anchor
		if anchor == api.AnchorAuto || anchor == "" {
			anchor = resolveAutoAnchor(x, content, fontSize, rw.cfg.Estimator)
			// Repeated placeholders reuse the first decision.
			record.Anchor = anchor
		}
		if record.Escaped != "" {
			newContent = record.Escaped
		} else {
			newContent = EscapeMarkup(record.Original)
		}
	} else {
		// Unmanaged node: exporter-injected incidental text keeps its
		// content and gets the start/start default.
		stats.Unmanaged++
	}

	newY := y + anchorOffset(anchor, fontSize, rw.cfg.YCorrFactor)

	attrs = setAttr(attrs, xAttrRe, "x", "0")
	attrs = setAttr(attrs, yAttrRe, "y", formatCoord(newY))
	attrs = setAttr(attrs, styleAttrRe, "style", appendStyle(style, "text-anchor:"+string(anchor)))
	if rw.cfg.SquishedText {
		attrs = prependTransform(attrs, fmt.Sprintf("scale(%g,1)", rw.cfg.SquishFactor))
	}
	return "<text" + attrs + ">" + newContent + "</text>"
}

// styleFontSize extracts the node's own font-size declaration, falling back
// to the unmanaged default.
func styleFontSize(style string) float64 {
	if m := fontSizeRe.FindStringSubmatch(style); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			return v
		}
	}
	return unmanagedFontSize
}

func attrFloat(attrs string, re *regexp.Regexp) float64 {
	if m := re.FindStringSubmatch(attrs); m != nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(m[1]), 64); err == nil {
			return v
		}
	}
	return 0
}

// setAttr replaces an attribute's value, adding the attribute when absent.
func setAttr(attrs string, re *regexp.Regexp, name, value string) string {
	replacement := name + `="` + value + `"`
	if re.MatchString(attrs) {
		return re.ReplaceAllString(attrs, replacement)
	}
	return attrs + " " + replacement
}

func appendStyle(style, directive string) string {
	if style == "" {
		return directive
	}
	return strings.TrimSuffix(style, ";") + ";" + directive
}

// prependTransform puts t in front of any transform already on the node so
// it applies in node-local coordinates.
func prependTransform(attrs, t string) string {
	if m := transformRe.FindStringSubmatch(attrs); m != nil {
		return transformRe.ReplaceAllString(attrs, `transform="`+t+" "+m[1]+`"`)
	}
	return attrs + ` transform="` + t + `"`
}

// formatCoord rounds to 4 decimals so accumulated float error never leaks
// into the markup.
func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}
