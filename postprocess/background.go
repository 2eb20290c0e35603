package postprocess

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/flanksource/figtex/svgdoc"
)

var (
	rectRe      = regexp.MustCompile(`<rect\b[^>]*/?>`)
	rectAttrRe  = regexp.MustCompile(`\b(x|y|width|height)="([^"]*)"`)
	whiteFillRe = regexp.MustCompile(`fill\s*[:=]\s*"?(#fff(fff)?|white)\b`)
	groupOpenRe = regexp.MustCompile(`<g(\s[^>]*)?>`)
)

// removeBackground deletes the exporter's default opaque page fill: a
// filled rectangle anchored at the document origin spanning the full
// canvas, together with its enclosing group. Returns false when no such
// rectangle exists.
func removeBackground(doc *svgdoc.Document, canvas svgdoc.Canvas) bool {
	for li, line := range doc.Lines {
		for _, loc := range rectRe.FindAllStringIndex(line, -1) {
			rect := line[loc[0]:loc[1]]
			if !isPageFill(rect, canvas) {
				continue
			}
			if deleteEnclosingGroup(doc, li, loc[0], loc[1]) {
				return true
			}
			// No enclosing group in reach: drop the rectangle alone.
			doc.Lines[li] = line[:loc[0]] + line[loc[1]:]
			return true
		}
	}
	return false
}

func isPageFill(rect string, canvas svgdoc.Canvas) bool {
	if !whiteFillRe.MatchString(rect) {
		return false
	}
	var x, y, w, h float64
	for _, m := range rectAttrRe.FindAllStringSubmatch(rect, -1) {
		v, err := strconv.ParseFloat(strings.TrimSpace(m[2]), 64)
		if err != nil {
			return false
		}
		switch m[1] {
		case "x":
			x = v
		case "y":
			y = v
		case "width":
			w = v
		case "height":
			h = v
		}
	}
	const tolerance = 1.0
	return math.Abs(x) < tolerance && math.Abs(y) < tolerance &&
		math.Abs(w-canvas.Width) < tolerance && math.Abs(h-canvas.Height) < tolerance
}

// deleteEnclosingGroup removes the <g> span containing the rectangle at
// doc.Lines[line][rs:re]. The supported exporter emits the background as a
// single-rect group, so the group open sits earlier on the same line and
// the close follows the rectangle.
func deleteEnclosingGroup(doc *svgdoc.Document, line, rs, re int) bool {
	s := doc.Lines[line]
	opens := groupOpenRe.FindAllStringIndex(s[:rs], -1)
	if len(opens) == 0 {
		return false
	}
	gStart := opens[len(opens)-1][0]
	// The last group opened before the rectangle must still be open:
	// reject when a close intervenes.
	if strings.Contains(s[opens[len(opens)-1][1]:rs], "</g>") {
		return false
	}
	depth := 1
	i := re
	for li := line; li < len(doc.Lines); li++ {
		if li > line {
			s = doc.Lines[li]
			i = 0
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
				if depth == 0 {
					if li == line {
						doc.Lines[line] = doc.Lines[line][:gStart] + doc.Lines[line][i+4:]
					} else {
						doc.Lines[line] = doc.Lines[line][:gStart]
						for mid := line + 1; mid < li; mid++ {
							doc.Lines[mid] = ""
						}
						doc.Lines[li] = doc.Lines[li][i+4:]
					}
					compact(doc)
					return true
				}
				i += 4
			case strings.HasPrefix(s[i:], "<g>") || strings.HasPrefix(s[i:], "<g "):
				depth++
				i += 2
			default:
				i++
			}
		}
	}
	return false
}

// compact drops lines emptied by a deletion so serialization stays clean.
func compact(doc *svgdoc.Document) {
	kept := doc.Lines[:0]
	for _, line := range doc.Lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	doc.Lines = kept
}
