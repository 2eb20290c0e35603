// Package preview rasterizes the corrected SVG to a PNG so the result can
// be eyeballed without running the backend converter.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// DefaultWidth is the preview width when the caller does not choose one.
const DefaultWidth = 800

// PNG renders svg to a PNG of the given pixel width, preserving the
// document's aspect ratio.
func PNG(svg []byte, width int) ([]byte, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parsing corrected SVG: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, fmt.Errorf("document has no drawable area")
	}

	height := int(float64(width) * icon.ViewBox.H / icon.ViewBox.W)
	if height < 1 {
		height = 1
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, fmt.Errorf("encoding preview: %w", err)
	}
	return buf.Bytes(), nil
}
