package reconcile

import (
	"math"
	"unicode/utf8"

	"github.com/flanksource/figtex/api"
)

// Vertical offset factors by anchor, as fractions of the font size. The
// exporter places text on a top-left baseline; these move each node onto
// the baseline the backend expects for its anchor.
const (
	startOffsetFactor  = 1.12
	middleOffsetFactor = 0.44
	endOffsetFactor    = -0.24
)

// anchorOffset is the y correction for a node, scaled by the configured
// baseline nudge factor.
func anchorOffset(a api.Anchor, fontSize, yCorrFactor float64) float64 {
	factor := startOffsetFactor
	switch a {
	case api.AnchorMiddle:
		factor = middleOffsetFactor
	case api.AnchorEnd:
		factor = endOffsetFactor
	}
	return factor * fontSize * yCorrFactor
}

// WidthEstimator predicts the rendered width of a glyph run. The default
// regression is fit to one exporter/font pairing; a different renderer or
// font stack injects its own measurement here.
type WidthEstimator interface {
	Width(text string, fontSize float64) float64
}

// RegressionEstimator is a linear model over (character count, font size).
type RegressionEstimator struct {
	Slope     float64
	Intercept float64
}

func (e RegressionEstimator) Width(text string, fontSize float64) float64 {
	return fontSize * (e.Slope*float64(utf8.RuneCountInString(text)) + e.Intercept)
}

// DefaultEstimator carries the empirically fit constants for the supported
// exporter and its default font.
var DefaultEstimator WidthEstimator = RegressionEstimator{Slope: 0.52, Intercept: 0.30}

// resolveAutoAnchor decides between middle and end for an auto-anchored
// node: under the width estimate, a centered run puts its literal x at
// minus half the width and an end-anchored run at minus the full width;
// the closer hypothesis wins.
func resolveAutoAnchor(x float64, rendered string, fontSize float64, est WidthEstimator) api.Anchor {
	full := est.Width(rendered, fontSize)
	half := full / 2
	if math.Abs(x+half) <= math.Abs(x+full) {
		return api.AnchorMiddle
	}
	return api.AnchorEnd
}
