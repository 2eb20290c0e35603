package figtex

import (
	"fmt"
	"time"

	"github.com/flanksource/commons/logger"
)

// Result reports what a conversion run produced. A run that completes
// returns a Result even when individual steps degraded to warnings; only
// inability to read the scene or its export is fatal.
type Result struct {
	SVG    string
	PDF    string
	PDFTex string
	PNG    string

	Labels    int
	Matched   int
	Unmanaged int
	NotFound  []string

	BackendVersion string
	Duration       time.Duration
	Warnings       []string
}

func (r *Result) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	logger.Warnf("%s", msg)
}

// Outputs lists the files the run produced, in creation order.
func (r *Result) Outputs() []string {
	var out []string
	for _, path := range []string{r.SVG, r.PNG, r.PDF, r.PDFTex} {
		if path != "" {
			out = append(out, path)
		}
	}
	return out
}
