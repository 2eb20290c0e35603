package svgdoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rustyoz/svg"
)

// Canvas is the declared size of the exported document, in document units.
// It anchors the host-unit to document-unit scale factor used by the legend
// post-processor.
type Canvas struct {
	Width  float64
	Height float64
}

// ParseCanvas reads the document root's declared size, falling back to the
// viewBox when width/height are absent.
func ParseCanvas(raw string) (Canvas, error) {
	parsed, err := svg.ParseSvg(raw, "figure", 1.0)
	if err != nil {
		return Canvas{}, fmt.Errorf("parsing document root: %w", err)
	}
	w, werr := parseLength(parsed.Width)
	h, herr := parseLength(parsed.Height)
	if werr == nil && herr == nil && w > 0 && h > 0 {
		return Canvas{Width: w, Height: h}, nil
	}
	if fields := strings.Fields(parsed.ViewBox); len(fields) == 4 {
		w, werr = parseLength(fields[2])
		h, herr = parseLength(fields[3])
		if werr == nil && herr == nil && w > 0 && h > 0 {
			return Canvas{Width: w, Height: h}, nil
		}
	}
	return Canvas{}, fmt.Errorf("document declares no usable canvas size")
}

// parseLength strips a trailing unit suffix (px, pt, mm, ...) and parses
// the numeric part.
func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	end := len(s)
	for end > 0 {
		c := s[end-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		end--
	}
	if end == 0 {
		return 0, fmt.Errorf("no numeric length in %q", s)
	}
	return strconv.ParseFloat(s[:end], 64)
}
