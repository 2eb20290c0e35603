package scene

import (
	"github.com/flanksource/figtex/api"
	"github.com/flanksource/figtex/labels"
)

// Mutator pushes placeholders into the scene ahead of export and restores
// the original text afterwards, so the host figure is left untouched.
type Mutator struct {
	catalog *labels.Catalog
	mutated []mutation
}

type mutation struct {
	element TextElement
	record  *api.Label
}

func NewMutator(catalog *labels.Catalog) *Mutator {
	return &Mutator{catalog: catalog}
}

// Apply traverses the scene in enumeration order, registers a catalog
// record for every non-empty label, and writes the placeholder into the
// element. Elements with empty text are skipped.
func (m *Mutator) Apply(src Source) {
	for _, e := range src.Elements() {
		ops := OpsFor(e.Kind())
		text := ops.ExtractText(e)
		if text == "" {
			continue
		}
		record := api.Label{
			Original:  text,
			Kind:      e.Kind(),
			FontSize:  ops.ExtractFontSize(e),
			Color:     ops.ExtractColor(e),
			Alignment: ops.ComputeAlignment(e),
			Anchor:    ops.ComputeAnchor(e),
		}
		if box, ok := e.Bounds(); ok {
			record.Bounds = &box
		}
		r := m.catalog.Register(record, ops.Mode)
		ops.ApplyMutation(e, r.Placeholder)
		m.mutated = append(m.mutated, mutation{element: e, record: r})
	}
}

// Restore writes the original text back into every mutated element.
func (m *Mutator) Restore() {
	for _, mu := range m.mutated {
		ops := OpsFor(mu.record.Kind)
		ops.ApplyMutation(mu.element, mu.record.Original)
	}
}
