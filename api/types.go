package api

import (
	"fmt"
	"math"
)

// ElementKind is the closed set of text-bearing scene element classes.
// Every label record carries exactly one kind; per-kind behavior lives in
// dispatch tables keyed by ElementKind rather than in per-element closures.
type ElementKind int

const (
	PlainText ElementKind = iota
	LegendEntry
	AxisTick
	ColorbarTick
	ConstantLineLabel
	AxisExponent
)

var kindNames = map[ElementKind]string{
	PlainText:         "text",
	LegendEntry:       "legend",
	AxisTick:          "axis-tick",
	ColorbarTick:      "colorbar-tick",
	ConstantLineLabel: "constant-line",
	AxisExponent:      "axis-exponent",
}

func (k ElementKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseElementKind converts the manifest spelling back to an ElementKind.
func ParseElementKind(s string) (ElementKind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return PlainText, fmt.Errorf("unknown element kind %q", s)
}

func (k ElementKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *ElementKind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseElementKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Alignment is the semantic placement class of a label: which edge of the
// label's original box its anchor corresponds to.
type Alignment string

const (
	AlignStart  Alignment = "start"
	AlignCenter Alignment = "center"
	AlignEnd    Alignment = "end"
	AlignAuto   Alignment = "auto"
)

// Anchor selects which end of the glyph run aligns with the text node's
// x coordinate.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
	AnchorAuto   Anchor = "auto"
)

// AnchorFor maps an alignment class onto the anchor keyword carrying it.
func AnchorFor(a Alignment) Anchor {
	switch a {
	case AlignCenter:
		return AnchorMiddle
	case AlignEnd:
		return AnchorEnd
	case AlignAuto:
		return AnchorAuto
	default:
		return AnchorStart
	}
}

// RGB is a host color triple with channels in [0,1].
type RGB struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
}

var (
	// Black is the implicit default text color.
	Black = RGB{0, 0, 0}
	// NeutralGray is the host's default axis color, treated as "no color"
	// so tick labels do not all get wrapped in color directives.
	NeutralGray = RGB{0.15, 0.15, 0.15}
)

const colorEpsilon = 1e-6

// Hex renders the color as #rrggbb for SVG styles.
func (c RGB) Hex() string {
	clamp := func(v float64) int {
		n := int(math.Round(v * 255))
		if n < 0 {
			return 0
		}
		if n > 255 {
			return 255
		}
		return n
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.R), clamp(c.G), clamp(c.B))
}

func (c RGB) Equal(o RGB) bool {
	return math.Abs(c.R-o.R) < colorEpsilon &&
		math.Abs(c.G-o.G) < colorEpsilon &&
		math.Abs(c.B-o.B) < colorEpsilon
}

// Box is an axis-aligned bounding box in host units.
type Box struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Label is one catalog record: a placeholder bound to the original text it
// stands in for, plus the metadata needed to restore and re-position it.
type Label struct {
	Placeholder string      `yaml:"placeholder"`
	Original    string      `yaml:"original"`
	Escaped     string      `yaml:"-"`
	Kind        ElementKind `yaml:"kind"`
	FontSize    float64     `yaml:"font_size"`
	Color       RGB         `yaml:"color"`
	Alignment   Alignment   `yaml:"alignment"`
	Anchor      Anchor      `yaml:"anchor"`
	Bounds      *Box        `yaml:"bounds,omitempty"`

	// Found is set during reconciliation when the placeholder was matched
	// in the exported markup.
	Found bool `yaml:"-"`
}
