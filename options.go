// Package figtex converts a host-exported vector figure into a
// publication-ready artifact while preserving the original rich text of
// every label. Labels are swapped for collision-free placeholders before
// export and reconciled back afterwards; an external converter then
// produces the final embeddable document pair.
package figtex

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/flanksource/figtex/preview"
	"github.com/flanksource/figtex/reconcile"
	"github.com/flanksource/figtex/svgdoc"
)

// Options is the full configuration surface of a conversion run.
type Options struct {
	// YCorrFactor scales the per-anchor baseline offsets.
	YCorrFactor float64 `yaml:"y_corr_factor"`
	// LegendPadding widens corrected legend boxes, in points. Accepts a
	// single value for all sides or four values: top, bottom, left,
	// right.
	LegendPadding []float64 `yaml:"legend_padding"`
	// FontSizeMode is one of auto, fixed, none, explicit.
	FontSizeMode string `yaml:"font_size_mode"`
	// FontSize is the size used by the explicit mode.
	FontSize float64 `yaml:"font_size"`
	// ReplaceList holds literal substitutions applied to original text
	// before escaping.
	ReplaceList []reconcile.ReplacePair `yaml:"replace_list"`
	// SquishedText horizontally compresses matched text nodes.
	SquishedText bool    `yaml:"squished_text"`
	SquishFactor float64 `yaml:"squish_factor"`
	// RemoveWhiteBackground strips the exporter's opaque page fill.
	RemoveWhiteBackground bool   `yaml:"remove_white_background"`
	ExportMode            string `yaml:"export_mode"`
	// SVGOnly suppresses the backend invocation; only the corrected
	// .svg is produced.
	SVGOnly bool `yaml:"svg_only"`
	// Verify checks the backend PDF for structure and leaked
	// placeholders.
	Verify bool `yaml:"verify"`
	// Preview additionally rasterizes the corrected SVG to a .png.
	Preview      bool `yaml:"preview"`
	PreviewWidth int  `yaml:"preview_width"`
	// EscapeDollar escapes dollar signs for backends that treat them as
	// math delimiters.
	EscapeDollar bool `yaml:"escape_dollar"`
	// BackendPath overrides converter discovery on PATH.
	BackendPath   string `yaml:"backend_path"`
	MaxLineLength int    `yaml:"max_line_length"`
}

func DefaultOptions() Options {
	return Options{
		YCorrFactor:           1.0,
		FontSizeMode:          string(reconcile.FontSizeAuto),
		RemoveWhiteBackground: true,
		ExportMode:            "export-area-drawing",
		PreviewWidth:          preview.DefaultWidth,
		MaxLineLength:         svgdoc.DefaultMaxLineLength,
	}
}

// LoadOptions reads a YAML config file over the defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return opts, opts.Validate()
}

// Validate rejects option combinations the pipeline cannot honor.
func (o *Options) Validate() error {
	switch len(o.LegendPadding) {
	case 0, 1, 4:
	default:
		return fmt.Errorf("legend padding needs one value or four (top, bottom, left, right), got %d", len(o.LegendPadding))
	}
	switch reconcile.FontSizeMode(o.FontSizeMode) {
	case reconcile.FontSizeAuto, reconcile.FontSizeFixed, reconcile.FontSizeNone, reconcile.FontSizeExplicit, "":
	default:
		return fmt.Errorf("unknown font size mode %q", o.FontSizeMode)
	}
	return nil
}

// padding4 expands the padding shorthand to top, bottom, left, right.
func (o *Options) padding4() [4]float64 {
	switch len(o.LegendPadding) {
	case 1:
		v := o.LegendPadding[0]
		return [4]float64{v, v, v, v}
	case 4:
		return [4]float64{o.LegendPadding[0], o.LegendPadding[1], o.LegendPadding[2], o.LegendPadding[3]}
	}
	return [4]float64{}
}

func (o Options) withDefaults() Options {
	if o.YCorrFactor == 0 {
		o.YCorrFactor = 1.0
	}
	if o.FontSizeMode == "" {
		o.FontSizeMode = string(reconcile.FontSizeAuto)
	}
	if o.ExportMode == "" {
		o.ExportMode = "export-area-drawing"
	}
	if o.PreviewWidth == 0 {
		o.PreviewWidth = preview.DefaultWidth
	}
	if o.MaxLineLength == 0 {
		o.MaxLineLength = svgdoc.DefaultMaxLineLength
	}
	return o
}

// BindPFlags adds the conversion flags to a pflag set.
func BindPFlags(flags *pflag.FlagSet, o *Options) {
	flags.Float64Var(&o.YCorrFactor, "y-corr-factor", o.YCorrFactor, "Baseline nudge as a fraction of font size")
	flags.Float64SliceVar(&o.LegendPadding, "legend-padding", o.LegendPadding, "Legend box padding in points: one value, or top,bottom,left,right")
	flags.StringVar(&o.FontSizeMode, "font-size-mode", o.FontSizeMode, "Font size handling: auto, fixed, none, explicit")
	flags.Float64Var(&o.FontSize, "font-size", o.FontSize, "Font size for --font-size-mode=explicit")
	flags.BoolVar(&o.SquishedText, "squished-text", o.SquishedText, "Horizontally compress text nodes")
	flags.Float64Var(&o.SquishFactor, "squish-factor", o.SquishFactor, "Horizontal scale for --squished-text")
	flags.BoolVar(&o.RemoveWhiteBackground, "remove-white-background", o.RemoveWhiteBackground, "Strip the exporter's opaque page fill")
	flags.StringVar(&o.ExportMode, "export-mode", o.ExportMode, "Backend export area: export-area-drawing or export-area-page")
	flags.BoolVar(&o.SVGOnly, "svg-only", o.SVGOnly, "Write the corrected SVG without invoking the backend")
	flags.BoolVar(&o.Verify, "verify", o.Verify, "Verify the backend PDF for structure and leaked placeholders")
	flags.BoolVar(&o.Preview, "png", o.Preview, "Also rasterize a PNG preview of the corrected SVG")
	flags.IntVar(&o.PreviewWidth, "png-width", o.PreviewWidth, "PNG preview width in pixels")
	flags.BoolVar(&o.EscapeDollar, "escape-dollar", o.EscapeDollar, "Escape dollar signs in label text")
	flags.StringVar(&o.BackendPath, "backend", o.BackendPath, "Path to the converter binary (default: inkscape on PATH)")
}
