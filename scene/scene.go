// Package scene specifies the interface to the host's figure graph and the
// mutator that pushes placeholders into it. The host owns enumeration,
// property access, and the vector export; figtex only reads label metadata
// and writes label text.
package scene

import (
	"github.com/flanksource/figtex/api"
)

// TextElement is one text-bearing element of the host scene.
type TextElement interface {
	Kind() api.ElementKind
	Text() string
	SetText(string)
	FontSize() float64
	Color() api.RGB
	// HorizontalAlignment is the host's layout class for the label.
	HorizontalAlignment() api.Alignment
	// Bounds returns the element's bounding box in host units, when the
	// host can provide one.
	Bounds() (api.Box, bool)
}

// Legend is a legend object whose bounding geometry may need correction
// after export.
type Legend interface {
	// Bounds is the desired final bounding box in host units.
	Bounds() api.Box
	// Vertical reports a stacked (one entry per row) legend.
	Vertical() bool
	// Boxed reports a visible border.
	Boxed() bool
}

// Source is the host figure handle: it enumerates text-bearing elements,
// exposes legends for geometry snapshots, and serializes itself to SVG.
type Source interface {
	Elements() []TextElement
	Legends() []Legend
	// CanvasSize is the figure size in host units.
	CanvasSize() (w, h float64)
	// Export serializes the (placeholder-mutated) scene to path. This is
	// the host's own exporter; its text handling is exactly what the
	// placeholder scheme works around.
	Export(path string) error
}
