package figtex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "figtex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
y_corr_factor: 0.8
legend_padding: [1, 2, 3, 4]
font_size_mode: none
squished_text: true
replace_list:
  - from: "&"
    to: "and"
`), 0644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, 0.8, opts.YCorrFactor)
	assert.Equal(t, []float64{1, 2, 3, 4}, opts.LegendPadding)
	assert.Equal(t, "none", opts.FontSizeMode)
	assert.True(t, opts.SquishedText)
	require.Len(t, opts.ReplaceList, 1)
	assert.Equal(t, "&", opts.ReplaceList[0].From)

	// Unset keys keep their defaults.
	assert.True(t, opts.RemoveWhiteBackground)
	assert.Equal(t, "export-area-drawing", opts.ExportMode)
}

func TestLoadOptionsMissingFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())

	opts.LegendPadding = []float64{1, 2}
	assert.Error(t, opts.Validate())

	opts.LegendPadding = nil
	opts.FontSizeMode = "bogus"
	assert.Error(t, opts.Validate())
}

func TestPadding4(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, [4]float64{}, opts.padding4())

	opts.LegendPadding = []float64{3}
	assert.Equal(t, [4]float64{3, 3, 3, 3}, opts.padding4())

	opts.LegendPadding = []float64{1, 2, 3, 4}
	assert.Equal(t, [4]float64{1, 2, 3, 4}, opts.padding4())
}

func TestWithDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, 1.0, opts.YCorrFactor)
	assert.Equal(t, "auto", opts.FontSizeMode)
	assert.Equal(t, "export-area-drawing", opts.ExportMode)
	assert.NotZero(t, opts.PreviewWidth)
	assert.NotZero(t, opts.MaxLineLength)
}
