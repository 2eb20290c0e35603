package scene

import (
	"github.com/flanksource/figtex/api"
	"github.com/flanksource/figtex/labels"
)

// Ops is the per-kind behavior table: pure functions over a TextElement
// plus the registry mode its placeholders use. Keeping this a closed table
// keyed by ElementKind replaces per-element accessor closures.
type Ops struct {
	ExtractText      func(TextElement) string
	ExtractFontSize  func(TextElement) float64
	ExtractColor     func(TextElement) api.RGB
	ComputeAlignment func(TextElement) api.Alignment
	ComputeAnchor    func(TextElement) api.Anchor
	ApplyMutation    func(TextElement, string)
	Mode             labels.Mode
}

func defaultOps(mode labels.Mode, align api.Alignment) Ops {
	return Ops{
		ExtractText:     TextElement.Text,
		ExtractFontSize: TextElement.FontSize,
		ExtractColor:    TextElement.Color,
		ComputeAlignment: func(e TextElement) api.Alignment {
			return align
		},
		ComputeAnchor: func(e TextElement) api.Anchor {
			return api.AnchorFor(align)
		},
		ApplyMutation: TextElement.SetText,
		Mode:          mode,
	}
}

// hostAlignedOps defers alignment to the host's own layout class.
func hostAlignedOps(mode labels.Mode) Ops {
	ops := defaultOps(mode, api.AlignStart)
	ops.ComputeAlignment = TextElement.HorizontalAlignment
	ops.ComputeAnchor = func(e TextElement) api.Anchor {
		return api.AnchorFor(e.HorizontalAlignment())
	}
	return ops
}

var opsByKind = map[api.ElementKind]Ops{
	// Free-standing text keeps its host alignment and a recognizable
	// sanitized placeholder.
	api.PlainText: hostAlignedOps(labels.Sanitize),
	// Legend entries are padded so the pre-correction bounding box
	// approximates the original footprint.
	api.LegendEntry: defaultOps(labels.Padded, api.AlignStart),
	// Tick labels are short-mode; which side of the axis they hang off
	// is resolved per node by the auto anchor heuristic.
	api.AxisTick:          defaultOps(labels.Short, api.AlignAuto),
	api.ColorbarTick:      defaultOps(labels.Short, api.AlignStart),
	api.ConstantLineLabel: defaultOps(labels.Sanitize, api.AlignCenter),
	api.AxisExponent:      defaultOps(labels.Sanitize, api.AlignStart),
}

// OpsFor returns the behavior table entry for kind, falling back to the
// plain-text policy for kinds the table does not name.
func OpsFor(kind api.ElementKind) Ops {
	if ops, ok := opsByKind[kind]; ok {
		return ops
	}
	return opsByKind[api.PlainText]
}
