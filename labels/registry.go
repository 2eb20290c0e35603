// Package labels holds the placeholder registry and the per-run label
// catalog. Placeholders stand in for label text during export so the host
// exporter never sees text it cannot serialize; the catalog keeps enough
// metadata to restore every label afterwards.
package labels

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode selects how the registry derives a placeholder from the original text.
type Mode int

const (
	// Sanitize keeps a recognizable form of the original text, reduced to
	// characters every exporter handles.
	Sanitize Mode = iota
	// Short draws from a base-26 counter shared across all modes of one
	// run, yielding the shortest possible placeholders.
	Short
	// Padded keeps the original text and appends a fixed suffix, used
	// where the placeholder's footprint must approximate the original.
	Padded
)

// fillerPalette supplies the disambiguation characters appended on
// collision, tried round-robin before repeating the last one.
var fillerPalette = []rune{'.', ';', '\'', '^'}

// collisionCeiling bounds the disambiguation loop. Every appended filler
// grows the candidate, so hitting this means the palette is misconfigured.
const collisionCeiling = 4096

const paddedSuffix = "......."

var (
	sanitizeRe   = regexp.MustCompile(`[^\pL\pN\s-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Registry generates placeholders that are pairwise distinct for the
// lifetime of one conversion run. It is not safe for concurrent use; the
// pipeline is single threaded by design.
type Registry struct {
	used    map[string]struct{}
	counter int
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Reset clears all registered placeholders and the shared counter so an
// identical request sequence reproduces an identical placeholder sequence.
func (r *Registry) Reset() {
	r.used = map[string]struct{}{}
	r.counter = 0
}

// Register returns a placeholder for text that is distinct from every
// placeholder handed out since the last Reset. The returned value is
// recorded before returning, so check-then-insert is atomic within the
// single-threaded run.
func (r *Registry) Register(text string, mode Mode) string {
	var p string
	switch mode {
	case Short:
		p = r.nextShort()
	case Padded:
		p = r.disambiguate(text + paddedSuffix)
	default:
		p = r.disambiguate(sanitize(text))
	}
	r.used[p] = struct{}{}
	return p
}

// Used reports whether a placeholder has already been handed out.
func (r *Registry) Used(p string) bool {
	_, ok := r.used[p]
	return ok
}

func sanitize(text string) string {
	s := sanitizeRe.ReplaceAllString(text, ".")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func (r *Registry) disambiguate(base string) string {
	if !r.Used(base) {
		return base
	}
	candidate := base
	for i := 0; i < collisionCeiling; i++ {
		if i < len(fillerPalette) {
			candidate = base + string(fillerPalette[i])
		} else {
			candidate += string(fillerPalette[len(fillerPalette)-1])
		}
		if !r.Used(candidate) {
			return candidate
		}
	}
	panic(fmt.Sprintf("labels: filler palette exhausted disambiguating %q", base))
}

// nextShort advances the run-wide counter until it lands on an unused name,
// so short placeholders can never collide with sanitize or padded ones.
func (r *Registry) nextShort() string {
	for {
		p := base26(r.counter)
		r.counter++
		if !r.Used(p) {
			return p
		}
	}
}

// base26 spells n in the bijective base-26 sequence a, b, ..., z, aa, ab, ...
func base26(n int) string {
	var b []byte
	n++
	for n > 0 {
		n--
		b = append([]byte{byte('a' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
