package backend

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// ExportMode selects the area the converter exports.
type ExportMode string

const (
	ExportAreaDrawing ExportMode = "export-area-drawing"
	ExportAreaPage    ExportMode = "export-area-page"
	// Accepted for pre-1.0 converters.
	ExportArea     ExportMode = "export-area"
	ExportUseHints ExportMode = "export-use-hints"
)

// ParseExportMode validates a mode flag value.
func ParseExportMode(s string) (ExportMode, error) {
	switch ExportMode(s) {
	case ExportAreaDrawing, ExportAreaPage, ExportArea, ExportUseHints:
		return ExportMode(s), nil
	}
	return "", fmt.Errorf("unknown export mode %q", s)
}

// Inkscape is a located converter binary. Major decides the invocation
// variant: 1.x renamed the export flags.
type Inkscape struct {
	Path    string
	Version string
	Major   int
}

var versionRe = regexp.MustCompile(`Inkscape\s+(\d+)(\.[\d.]+)?`)

// legacyProbeFlags must all appear in a pre-release build's help output for
// it to count as a usable converter.
var legacyProbeFlags = []string{"-export-area-drawing", "--export-latex", "--export-pdf"}

// Find probes for a usable converter. path may be a binary name resolved
// on PATH or an absolute location; empty means "inkscape".
func Find(ctx context.Context, path string) (*Inkscape, error) {
	if path == "" {
		path = "inkscape"
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("converter %q not found: %w", path, err)
	}

	probe := Command(resolved, "--version")
	if probe.Run(ctx) == nil {
		if version, major, ok := parseVersion(probe.Out()); ok {
			return &Inkscape{Path: resolved, Version: version, Major: major}, nil
		}
	}

	// Development builds answer --version with a nonzero exit; fall back
	// to checking the help text for the flags we need.
	help := Command(resolved, "--help")
	_ = help.Run(ctx)
	out := help.Out()
	for _, flag := range legacyProbeFlags {
		if !strings.Contains(out, flag) {
			return nil, fmt.Errorf("%s does not look like a usable converter", resolved)
		}
	}
	return &Inkscape{Path: resolved, Version: "legacy", Major: 0}, nil
}

func parseVersion(out string) (string, int, bool) {
	m := versionRe.FindStringSubmatch(out)
	if m == nil {
		return "", 0, false
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return "", 0, false
	}
	return strings.TrimSpace(m[1] + m[2]), major, true
}

// ExportPDF converts svgPath into pdfPath plus the companion pdfPath_tex.
// The returned process carries the captured converter output either way.
func (ink *Inkscape) ExportPDF(ctx context.Context, svgPath, pdfPath string, mode ExportMode) (*Process, error) {
	p := Command(ink.Path, ink.exportArgs(svgPath, pdfPath, mode)...)
	if err := p.Run(ctx); err != nil {
		return p, fmt.Errorf("converter failed: %w", err)
	}
	for _, want := range []string{pdfPath, pdfPath + "_tex"} {
		if _, err := os.Stat(want); err != nil {
			return p, fmt.Errorf("converter exited cleanly but %s is missing", want)
		}
	}
	return p, nil
}

func (ink *Inkscape) exportArgs(svgPath, pdfPath string, mode ExportMode) []string {
	if ink.Major >= 1 {
		return []string{svgPath, "--export-filename=" + pdfPath, "--export-latex", "--" + string(mode)}
	}
	return []string{svgPath, "--export-pdf", pdfPath, "--export-latex", "-" + string(mode)}
}
