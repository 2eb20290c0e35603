package figtex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/flanksource/commons/logger"

	"github.com/flanksource/figtex/api"
	"github.com/flanksource/figtex/backend"
	"github.com/flanksource/figtex/labels"
	"github.com/flanksource/figtex/postprocess"
	"github.com/flanksource/figtex/preview"
	"github.com/flanksource/figtex/reconcile"
	"github.com/flanksource/figtex/scene"
	"github.com/flanksource/figtex/shutdown"
	"github.com/flanksource/figtex/svgdoc"
	"github.com/flanksource/figtex/verify"
)

// Convert runs the full pipeline against a host scene: placeholder
// substitution, export, reconciliation, post-processing, atomic rewrite,
// and unless suppressed the backend conversion to <outputBase>.pdf plus
// <outputBase>.pdf_tex. The scene's original text is restored before
// Convert returns.
//
// <outputBase>.svg is always written. Recoverable problems degrade to
// warnings on the Result.
func Convert(ctx context.Context, src scene.Source, outputBase string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log := logger.GetLogger("figtex")
	started := time.Now()
	res := &Result{}

	// Pre-flight: a missing converter is the one configuration error
	// worth aborting for, and only before any file is touched.
	var ink *backend.Inkscape
	if !opts.SVGOnly {
		var err error
		ink, err = backend.Find(ctx, opts.BackendPath)
		if err != nil {
			return nil, fmt.Errorf("no usable backend (pass SVGOnly to skip it): %w", err)
		}
		res.BackendVersion = ink.Version
		log.Debugf("using backend %s (%s)", ink.Path, ink.Version)
	}

	snapshots := snapshotLegends(src)

	catalog := labels.NewCatalog()
	mutator := scene.NewMutator(catalog)
	mutator.Apply(src)
	defer mutator.Restore()

	svgPath := outputBase + ".svg"
	if err := src.Export(svgPath); err != nil {
		return nil, fmt.Errorf("scene export failed: %w", err)
	}
	res.SVG = svgPath
	res.Labels = catalog.Len()

	raw, err := os.ReadFile(svgPath)
	if err != nil {
		return nil, fmt.Errorf("reading exported markup: %w", err)
	}

	hostW, _ := src.CanvasSize()
	corrected, info := reconcileDocument(raw, catalog, snapshots, hostW, opts)
	res.Matched = info.Stats.Matched
	res.Unmanaged = info.Stats.Unmanaged
	res.Warnings = append(res.Warnings, info.Warnings...)
	for _, r := range catalog.NotFound() {
		res.NotFound = append(res.NotFound, r.Placeholder)
		res.warnf("label %q (placeholder %q) never appeared in the exported markup", r.Original, r.Placeholder)
	}

	if err := atomicWrite(svgPath, corrected); err != nil {
		// Keep the exporter's unmodified output as the final .svg.
		res.warnf("could not rewrite %s, keeping the raw export: %v", svgPath, err)
		corrected = raw
	}

	if opts.Preview {
		if png, err := preview.PNG(corrected, opts.PreviewWidth); err != nil {
			res.warnf("preview rasterization failed: %v", err)
		} else if err := os.WriteFile(outputBase+".png", png, 0644); err != nil {
			res.warnf("writing preview: %v", err)
		} else {
			res.PNG = outputBase + ".png"
		}
	}

	if !opts.SVGOnly {
		runBackend(ctx, ink, svgPath, outputBase, catalog.Placeholders(), opts, res)
	}

	res.Duration = time.Since(started)
	return res, nil
}

// ConvertFile reconciles an already-exported SVG against a label manifest:
// the post-export half of the pipeline for hosts that drive their own
// export.
func ConvertFile(ctx context.Context, svgPath, manifestPath string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	res := &Result{SVG: svgPath}

	var ink *backend.Inkscape
	if !opts.SVGOnly {
		var err error
		ink, err = backend.Find(ctx, opts.BackendPath)
		if err != nil {
			return nil, fmt.Errorf("no usable backend (pass --svg-only to skip it): %w", err)
		}
		res.BackendVersion = ink.Version
	}

	catalog, err := labels.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	res.Labels = catalog.Len()

	raw, err := os.ReadFile(svgPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", svgPath, err)
	}

	started := time.Now()
	// Without a live scene there are no legend snapshots to correct
	// against; background removal still applies.
	corrected, info := reconcileDocument(raw, catalog, nil, 0, opts)
	res.Matched = info.Stats.Matched
	res.Unmanaged = info.Stats.Unmanaged
	res.Warnings = append(res.Warnings, info.Warnings...)
	for _, r := range catalog.NotFound() {
		res.NotFound = append(res.NotFound, r.Placeholder)
		res.warnf("label %q (placeholder %q) never appeared in %s", r.Original, r.Placeholder, svgPath)
	}

	if err := atomicWrite(svgPath, corrected); err != nil {
		res.warnf("could not rewrite %s, keeping it untouched: %v", svgPath, err)
	}

	outputBase := svgPath[:len(svgPath)-len(filepath.Ext(svgPath))]
	if opts.Preview {
		if png, err := preview.PNG(corrected, opts.PreviewWidth); err != nil {
			res.warnf("preview rasterization failed: %v", err)
		} else if err := os.WriteFile(outputBase+".png", png, 0644); err != nil {
			res.warnf("writing preview: %v", err)
		} else {
			res.PNG = outputBase + ".png"
		}
	}
	if !opts.SVGOnly {
		runBackend(ctx, ink, svgPath, outputBase, catalog.Placeholders(), opts, res)
	}
	res.Duration = time.Since(started)
	return res, nil
}

// Reconcile runs the post-export half of the pipeline in memory: retokenize
// raw, restore the catalog's labels, patch geometry. No files are touched;
// hosts embedding the library can land the result however they like.
func Reconcile(raw []byte, catalog *labels.Catalog, opts Options) ([]byte, reconcile.Stats, []string) {
	opts = opts.withDefaults()
	corrected, info := reconcileDocument(raw, catalog, nil, 0, opts)
	return corrected, info.Stats, info.Warnings
}

// reconcileInfo carries the non-fatal outcomes of a reconciliation pass.
type reconcileInfo struct {
	Stats    reconcile.Stats
	Warnings []string
}

// reconcileDocument is the in-memory core: retokenize, match and rewrite
// text nodes, patch legend geometry, strip the page background.
func reconcileDocument(raw []byte, catalog *labels.Catalog, snapshots []postprocess.Snapshot, hostW float64, opts Options) ([]byte, *reconcileInfo) {
	info := &reconcileInfo{}

	formatter := &reconcile.Formatter{
		Mode:         reconcile.FontSizeMode(opts.FontSizeMode),
		BaseFontSize: catalog.BaselineFontSize(),
		ExplicitSize: opts.FontSize,
		NeutralGray:  api.NeutralGray,
		EscapeDollar: opts.EscapeDollar,
		Replacements: opts.ReplaceList,
	}
	catalog.Finalize(formatter.Format)

	doc := svgdoc.Retokenize(string(raw), opts.MaxLineLength)
	info.Stats = reconcile.NewRewriter(catalog, reconcile.Config{
		YCorrFactor:  opts.YCorrFactor,
		SquishedText: opts.SquishedText,
		SquishFactor: opts.SquishFactor,
	}).Rewrite(doc)
	if info.Stats.TextNodes == 0 && catalog.Len() > 0 {
		info.Warnings = append(info.Warnings,
			"no text nodes found in the exported markup; the renderer may not emit real text")
	}

	canvas, err := svgdoc.ParseCanvas(string(raw))
	if err != nil {
		info.Warnings = append(info.Warnings,
			fmt.Sprintf("skipping geometry corrections: %v", err))
	} else {
		proc := postprocess.New()
		proc.LegendPadding = opts.padding4()
		proc.RemoveBackground = opts.RemoveWhiteBackground
		proc.Apply(doc, canvas, hostW, snapshots)
	}
	return doc.Bytes(), info
}

func snapshotLegends(src scene.Source) []postprocess.Snapshot {
	var snapshots []postprocess.Snapshot
	for _, l := range src.Legends() {
		snapshots = append(snapshots, postprocess.Snapshot{
			Bounds:   l.Bounds(),
			Vertical: l.Vertical(),
			Boxed:    l.Boxed(),
		})
	}
	return snapshots
}

func runBackend(ctx context.Context, ink *backend.Inkscape, svgPath, outputBase string, placeholders []string, opts Options, res *Result) {
	mode, err := backend.ParseExportMode(opts.ExportMode)
	if err != nil {
		res.warnf("%v; using %s", err, backend.ExportAreaDrawing)
		mode = backend.ExportAreaDrawing
	}
	pdfPath := outputBase + ".pdf"
	p, err := ink.ExportPDF(ctx, svgPath, pdfPath, mode)
	if err != nil {
		res.warnf("backend conversion failed: %v\n%s", err, p.Out())
		return
	}
	res.PDF = pdfPath
	res.PDFTex = pdfPath + "_tex"
	if opts.Verify {
		res.Warnings = append(res.Warnings, verify.PDF(pdfPath, placeholders)...)
	}
}

// atomicWrite lands data at path via a temp file in the same directory and
// a rename, so a failed rewrite never replaces a valid file with a torn
// one.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".figtex-*")
	if err != nil {
		return err
	}
	unhook := shutdown.AddHook("remove "+tmp.Name(), func() { os.Remove(tmp.Name()) })
	defer unhook()
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
