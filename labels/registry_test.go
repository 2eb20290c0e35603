package labels

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryUniqueness(t *testing.T) {
	r := NewRegistry()
	seen := map[string]bool{}
	texts := []string{"Velocity", "Velocity", "Pressure", "a", "a", "x=1", "x=1", ""}
	for i := 0; i < 25; i++ {
		for _, text := range texts {
			for _, mode := range []Mode{Sanitize, Short, Padded} {
				p := r.Register(text, mode)
				require.False(t, seen[p], "placeholder %q handed out twice", p)
				seen[p] = true
			}
		}
	}
}

func TestRegistryDeterminism(t *testing.T) {
	r := NewRegistry()
	replay := func() []string {
		var out []string
		for i := 0; i < 40; i++ {
			out = append(out, r.Register("tick", Short))
			out = append(out, r.Register("Velocity", Sanitize))
		}
		return out
	}
	first := replay()
	r.Reset()
	second := replay()
	assert.Equal(t, first, second)
}

func TestSanitizeCollisionSequence(t *testing.T) {
	r := NewRegistry()
	expected := []string{
		"Velocity",
		"Velocity.",
		"Velocity;",
		"Velocity'",
		"Velocity^",
		"Velocity^^",
		"Velocity^^^",
	}
	for i, want := range expected {
		assert.Equal(t, want, r.Register("Velocity", Sanitize), "call %d", i)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Velocity", "Velocity"},
		{"x = 1", "x . 1"},
		{"a*b", "a.b"},
		{"semi-major", "semi-major"},
		{"tabs\t\tand  spaces", "tabs and spaces"},
		{"αβ", "αβ"},
		{"  padded  ", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r := NewRegistry()
			assert.Equal(t, tt.want, r.Register(tt.in, Sanitize))
		})
	}
}

func TestShortSequence(t *testing.T) {
	r := NewRegistry()
	var got []string
	for i := 0; i < 28; i++ {
		got = append(got, r.Register(fmt.Sprintf("tick %d", i), Short))
	}
	assert.Equal(t, "a", got[0])
	assert.Equal(t, "z", got[25])
	assert.Equal(t, "aa", got[26])
	assert.Equal(t, "ab", got[27])
}

// A sanitize placeholder can land on a name the short counter would emit
// next; the counter must skip it.
func TestShortSkipsTakenNames(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, "a", r.Register("a", Sanitize))
	assert.Equal(t, "b", r.Register("tick", Short))
}

func TestPaddedMode(t *testing.T) {
	r := NewRegistry()
	first := r.Register("measured", Padded)
	assert.Equal(t, "measured"+paddedSuffix, first)
	// Same entry text twice falls back to the filler palette.
	assert.Equal(t, first+".", r.Register("measured", Padded))
}
