// Package postprocess patches exporter output that substitution alone
// cannot fix: legend bounding geometry and the generator-inserted page
// background. Everything here is cosmetic; when an expected pattern is
// absent the pass skips silently.
package postprocess

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/flanksource/commons/logger"

	"github.com/flanksource/figtex/api"
	"github.com/flanksource/figtex/svgdoc"
)

// Snapshot is a legend's desired final geometry, captured in host units
// before the scene was mutated.
type Snapshot struct {
	Bounds   api.Box
	Vertical bool
	Boxed    bool
}

// LegendAdapter rewrites legend geometry for one exporter's output shape.
// The quadrilateral-path and group-nesting assumptions live behind this
// interface so an alternate exporter only needs a new adapter.
type LegendAdapter interface {
	// Correct rewrites the bounding geometry for the given snapshots and
	// returns how many legends were corrected. scale converts host units
	// to document units.
	Correct(doc *svgdoc.Document, snapshots []Snapshot, scale float64, padding [4]float64) int
}

// Processor runs the legend and background passes over a document.
type Processor struct {
	adapter LegendAdapter
	log     logger.Logger

	// LegendPadding widens the corrected box, in points: top, bottom,
	// left, right.
	LegendPadding    [4]float64
	RemoveBackground bool
}

func New() *Processor {
	return &Processor{
		adapter: &pathQuadAdapter{},
		log:     logger.GetLogger("postprocess"),
	}
}

// WithAdapter swaps the exporter-specific legend adapter.
func (p *Processor) WithAdapter(a LegendAdapter) *Processor {
	p.adapter = a
	return p
}

// Apply patches the document in place. canvas is the document's declared
// size; hostW is the figure width in host units, anchoring the scale
// factor.
func (p *Processor) Apply(doc *svgdoc.Document, canvas svgdoc.Canvas, hostW float64, snapshots []Snapshot) {
	eligible := make([]Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		// Horizontal and borderless legends pass through unmodified.
		if s.Vertical && s.Boxed {
			eligible = append(eligible, s)
		}
	}
	if len(eligible) > 0 {
		scale := 1.0
		if hostW > 0 && canvas.Width > 0 {
			scale = canvas.Width / hostW
		}
		corrected := p.adapter.Correct(doc, eligible, scale, p.LegendPadding)
		if corrected < len(eligible) {
			p.log.Warnf("corrected %d of %d legend boxes; leaving the rest as exported", corrected, len(eligible))
		}
	}
	if p.RemoveBackground {
		if !removeBackground(doc, canvas) {
			p.log.Debugf("no full-canvas background fill found")
		}
	}
}

// pathQuadAdapter matches the supported exporter's legend shape: the
// bounding box is a quadrilateral <path> of four or five axis-aligned
// points, followed in the same group by the marker glyphs.
type pathQuadAdapter struct{}

var pathDRe = regexp.MustCompile(`<path\b[^>]*?\bd="([^"]*)"[^>]*?/?>`)

func (a *pathQuadAdapter) Correct(doc *svgdoc.Document, snapshots []Snapshot, scale float64, padding [4]float64) int {
	corrected := 0
	line, off := 0, 0
	for _, snap := range snapshots {
		found := false
		for ; line < len(doc.Lines); line, off = line+1, 0 {
			locs := pathDRe.FindAllStringSubmatchIndex(doc.Lines[line][off:], -1)
			for _, loc := range locs {
				s, e := off+loc[0], off+loc[1]
				d := doc.Lines[line][off+loc[2] : off+loc[3]]
				actual, ok := parseQuad(d)
				if !ok {
					continue
				}
				desired := api.Box{
					X: (snap.Bounds.X - padding[2]) * scale,
					Y: (snap.Bounds.Y - padding[0]) * scale,
					W: (snap.Bounds.W + padding[2] + padding[3]) * scale,
					H: (snap.Bounds.H + padding[0] + padding[1]) * scale,
				}
				newD := fmt.Sprintf("M %s,%s L %s,%s L %s,%s L %s,%s Z",
					coord(desired.X), coord(desired.Y),
					coord(desired.X+desired.W), coord(desired.Y),
					coord(desired.X+desired.W), coord(desired.Y+desired.H),
					coord(desired.X), coord(desired.Y+desired.H))
				node := doc.Lines[line][s:e]
				doc.Lines[line] = doc.Lines[line][:s] + strings.Replace(node, d, newD, 1) + doc.Lines[line][e:]
				delta := len(newD) - len(d)
				wrapIcons(doc, line, e+delta, desired.X-actual.X, desired.Y-actual.Y)
				off = e + delta
				found = true
				corrected++
				break
			}
			if found {
				break
			}
		}
		if !found {
			break
		}
	}
	return corrected
}

// wrapIcons encloses the marker glyphs that follow the bounding path in a
// translation group so they track the corrected box. The wrap closes at
// the first text node or at the enclosing group's own close, whichever
// comes first.
func wrapIcons(doc *svgdoc.Document, line, from int, dx, dy float64) {
	open := fmt.Sprintf(`<g transform="translate(%s,%s)">`, coord(dx), coord(dy))
	depth := 0
	for li := line; li < len(doc.Lines); li++ {
		s := doc.Lines[li]
		i := 0
		if li == line {
			i = from
		}
		for i < len(s) {
			next := strings.IndexByte(s[i:], '<')
			if next < 0 {
				break
			}
			i += next
			switch {
			case strings.HasPrefix(s[i:], "</g>"):
				depth--
				if depth < 0 {
					doc.Lines[line] = doc.Lines[line][:from] + open + doc.Lines[line][from:]
					if li == line {
						i += len(open)
					}
					doc.Lines[li] = doc.Lines[li][:i] + "</g>" + doc.Lines[li][i:]
					return
				}
				i += 4
			case strings.HasPrefix(s[i:], "<g>") || strings.HasPrefix(s[i:], "<g "):
				depth++
				i += 2
			case strings.HasPrefix(s[i:], "<text") && depth == 0:
				doc.Lines[line] = doc.Lines[line][:from] + open + doc.Lines[line][from:]
				if li == line {
					i += len(open)
				}
				doc.Lines[li] = doc.Lines[li][:i] + "</g>" + doc.Lines[li][i:]
				return
			default:
				i++
			}
		}
	}
}

// parseQuad accepts a closed axis-aligned quadrilateral path: M plus three
// or four L points with exactly two distinct x and y values.
func parseQuad(d string) (api.Box, bool) {
	fields := strings.FieldsFunc(d, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	var coords []float64
	closed := false
	for _, f := range fields {
		switch f {
		case "M", "L":
			continue
		case "Z", "z":
			closed = true
			continue
		}
		f = strings.TrimPrefix(strings.TrimPrefix(f, "M"), "L")
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return api.Box{}, false
		}
		coords = append(coords, v)
	}
	if !closed || len(coords)%2 != 0 {
		return api.Box{}, false
	}
	n := len(coords) / 2
	if n != 4 && n != 5 {
		return api.Box{}, false
	}
	xs := distinct(coords, 0)
	ys := distinct(coords, 1)
	if len(xs) != 2 || len(ys) != 2 {
		return api.Box{}, false
	}
	return api.Box{
		X: math.Min(xs[0], xs[1]),
		Y: math.Min(ys[0], ys[1]),
		W: math.Abs(xs[1] - xs[0]),
		H: math.Abs(ys[1] - ys[0]),
	}, true
}

func distinct(coords []float64, offset int) []float64 {
	var vals []float64
	for i := offset; i < len(coords); i += 2 {
		seen := false
		for _, v := range vals {
			if math.Abs(v-coords[i]) < 1e-6 {
				seen = true
				break
			}
		}
		if !seen {
			vals = append(vals, coords[i])
		}
	}
	return vals
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
