package labels

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/flanksource/figtex/api"
)

// Catalog is the append-only, ordered store of label records for one
// conversion run. Insertion order is the priority order for collision
// resolution, so the registry is consulted in traversal order.
type Catalog struct {
	registry *Registry
	records  []*api.Label
	byName   map[string]*api.Label
}

func NewCatalog() *Catalog {
	return &Catalog{
		registry: NewRegistry(),
		byName:   map[string]*api.Label{},
	}
}

// Register generates a placeholder for the record's original text under the
// given mode, appends the record, and returns it. The record's Placeholder
// field is overwritten.
func (c *Catalog) Register(record api.Label, mode Mode) *api.Label {
	record.Placeholder = c.registry.Register(record.Original, mode)
	r := &record
	c.records = append(c.records, r)
	c.byName[r.Placeholder] = r
	return r
}

// Append adds a record whose placeholder was assigned elsewhere (a loaded
// manifest). Duplicate placeholders are rejected.
func (c *Catalog) Append(record api.Label) (*api.Label, error) {
	if record.Placeholder == "" {
		return nil, fmt.Errorf("label for %q has no placeholder", record.Original)
	}
	if c.registry.Used(record.Placeholder) {
		return nil, fmt.Errorf("duplicate placeholder %q", record.Placeholder)
	}
	c.registry.used[record.Placeholder] = struct{}{}
	r := &record
	c.records = append(c.records, r)
	c.byName[r.Placeholder] = r
	return r, nil
}

// Lookup finds a record by exact placeholder equality.
func (c *Catalog) Lookup(placeholder string) (*api.Label, bool) {
	r, ok := c.byName[placeholder]
	return r, ok
}

// Records returns the records in insertion order. The slice is shared;
// callers mutate records in place during reconciliation.
func (c *Catalog) Records() []*api.Label {
	return c.records
}

func (c *Catalog) Len() int {
	return len(c.records)
}

// Placeholders returns every registered placeholder in insertion order.
func (c *Catalog) Placeholders() []string {
	return lo.Map(c.records, func(r *api.Label, _ int) string {
		return r.Placeholder
	})
}

// NotFound lists the records never matched during reconciliation.
func (c *Catalog) NotFound() []*api.Label {
	return lo.Filter(c.records, func(r *api.Label, _ int) bool {
		return !r.Found
	})
}

// BaselineFontSize returns the most common font size across the catalog,
// used as the run baseline that per-element size directives diverge from.
func (c *Catalog) BaselineFontSize() float64 {
	if len(c.records) == 0 {
		return 0
	}
	counts := lo.CountValuesBy(c.records, func(r *api.Label) float64 {
		return r.FontSize
	})
	baseline, best := c.records[0].FontSize, 0
	for size, n := range counts {
		if n > best || (n == best && size < baseline) {
			baseline, best = size, n
		}
	}
	return baseline
}

// Finalize computes each record's escaped output text. It runs once, after
// traversal and before retokenization.
func (c *Catalog) Finalize(escape func(*api.Label) string) {
	for _, r := range c.records {
		r.Escaped = escape(r)
	}
}

// manifest is the on-disk form of a catalog, written by hosts that drive
// the export themselves and hand the CLI their placeholder table.
type manifest struct {
	Labels []api.Label `yaml:"labels"`
}

// LoadManifest reads a YAML label manifest into a fresh catalog.
func LoadManifest(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	c := NewCatalog()
	for _, record := range m.Labels {
		if _, err := c.Append(record); err != nil {
			return nil, fmt.Errorf("manifest %s: %w", path, err)
		}
	}
	return c, nil
}

// SaveManifest writes the catalog as a YAML label manifest.
func (c *Catalog) SaveManifest(path string) error {
	m := manifest{Labels: lo.Map(c.records, func(r *api.Label, _ int) api.Label {
		return *r
	})}
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
