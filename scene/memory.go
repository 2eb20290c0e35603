package scene

import (
	"fmt"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/flanksource/figtex/api"
)

// Memory is a scriptable in-memory scene with its own SVG exporter. It
// backs the demo command and the end-to-end tests: the exporter escapes
// text content and paints the default opaque page fill, the same habits of
// real host exporters that the pipeline has to undo.
type Memory struct {
	width, height float64
	elements      []*MemoryElement
	legends       []*MemoryLegend

	// Background paints a full-canvas white rectangle group, the way the
	// supported exporter does.
	Background bool
}

// MemoryElement is a single text-bearing element of a Memory scene.
type MemoryElement struct {
	ElemKind api.ElementKind
	X, Y     float64
	Size     float64
	Fill     api.RGB
	Align    api.Alignment
	Box      *api.Box

	text string
}

func (e *MemoryElement) Kind() api.ElementKind { return e.ElemKind }
func (e *MemoryElement) Text() string          { return e.text }
func (e *MemoryElement) SetText(s string)      { e.text = s }
func (e *MemoryElement) Color() api.RGB        { return e.Fill }

func (e *MemoryElement) FontSize() float64 {
	if e.Size == 0 {
		return 10
	}
	return e.Size
}

func (e *MemoryElement) HorizontalAlignment() api.Alignment {
	if e.Align == "" {
		return api.AlignStart
	}
	return e.Align
}

func (e *MemoryElement) Bounds() (api.Box, bool) {
	if e.Box == nil {
		return api.Box{}, false
	}
	return *e.Box, true
}

// MemoryLegend is a vertical, bordered legend occupying a fixed box.
type MemoryLegend struct {
	Box api.Box
}

func (l *MemoryLegend) Bounds() api.Box { return l.Box }
func (l *MemoryLegend) Vertical() bool  { return true }
func (l *MemoryLegend) Boxed() bool     { return true }

func NewMemory(width, height float64) *Memory {
	return &Memory{width: width, height: height, Background: true}
}

// AddText places a text element and returns it for further customization.
func (m *Memory) AddText(kind api.ElementKind, x, y float64, text string) *MemoryElement {
	e := &MemoryElement{ElemKind: kind, X: x, Y: y, text: text}
	m.elements = append(m.elements, e)
	return e
}

// AddLegend places a bordered vertical legend and one entry element per
// label, stacked inside the box.
func (m *Memory) AddLegend(box api.Box, entries ...string) *MemoryLegend {
	l := &MemoryLegend{Box: box}
	m.legends = append(m.legends, l)
	rowHeight := box.H / float64(len(entries)+1)
	for i, entry := range entries {
		e := m.AddText(api.LegendEntry, box.X+22, box.Y+rowHeight*float64(i+1), entry)
		e.Box = &api.Box{X: box.X + 22, Y: box.Y + rowHeight*float64(i), W: box.W - 26, H: rowHeight}
	}
	return l
}

func (m *Memory) Elements() []TextElement {
	out := make([]TextElement, len(m.elements))
	for i, e := range m.elements {
		out[i] = e
	}
	return out
}

func (m *Memory) Legends() []Legend {
	out := make([]Legend, len(m.legends))
	for i, l := range m.legends {
		out[i] = l
	}
	return out
}

func (m *Memory) CanvasSize() (float64, float64) {
	return m.width, m.height
}

// Export serializes the scene. Text content goes through svgo, which
// entity-escapes it; placeholders therefore come back from the file in
// escaped form, exactly as from a real exporter.
func (m *Memory) Export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("exporting scene: %w", err)
	}
	defer f.Close()

	canvas := svg.New(f)
	canvas.Start(int(m.width), int(m.height))
	if m.Background {
		canvas.Gid("figure-background")
		canvas.Rect(0, 0, int(m.width), int(m.height), "fill:#ffffff")
		canvas.Gend()
	}
	for _, l := range m.legends {
		b := l.Box
		canvas.Gid("legend")
		canvas.Path(fmt.Sprintf("M %g,%g L %g,%g L %g,%g L %g,%g Z",
			b.X, b.Y, b.X+b.W, b.Y, b.X+b.W, b.Y+b.H, b.X, b.Y+b.H),
			"fill:none;stroke:#000000")
		canvas.Line(int(b.X)+4, int(b.Y)+10, int(b.X)+18, int(b.Y)+10, "stroke:#0000ff")
		canvas.Gend()
	}
	for _, e := range m.elements {
		style := fmt.Sprintf("font-size:%gpx;fill:%s", e.FontSize(), e.Fill.Hex())
		canvas.Text(int(e.X), int(e.Y), e.text, style)
	}
	canvas.End()
	return nil
}
