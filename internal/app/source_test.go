package app

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceNamesListsBuiltins(t *testing.T) {
	assert.Equal(t, []string{"brick", "checker", "rooms"}, SourceNames())
}

func TestLoadBuiltinSource(t *testing.T) {
	bm, err := LoadSource("checker", nil)
	require.NoError(t, err)
	assert.Positive(t, bm.W)
	assert.Positive(t, bm.H)
}

func TestLoadSourceFromPNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 4))
	img.SetNRGBA(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	path := filepath.Join(t.TempDir(), "sample.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	bm, err := LoadSource(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, bm.W)
	assert.Equal(t, 4, bm.H)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, bm.At(2, 1))
}

func TestLoadSourceErrors(t *testing.T) {
	_, err := LoadSource(filepath.Join(t.TempDir(), "missing.png"), nil)
	assert.ErrorContains(t, err, "neither a built-in sample")

	junk := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(junk, []byte("not an image"), 0o644))
	_, err = LoadSource(junk, nil)
	assert.ErrorContains(t, err, "decode")
}

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("wfc", flag.ContinueOnError)
	cfg.Bind(fs)
	require.NoError(t, fs.Parse([]string{"-source", "rooms", "-w", "24", "-h", "16", "-seed", "9", "-max-patterns", "0"}))

	assert.Equal(t, "rooms", cfg.Source)
	ec := cfg.Engine()
	assert.Equal(t, 24, ec.Width)
	assert.Equal(t, 16, ec.Height)
	assert.Equal(t, int64(9), ec.Seed)
	assert.Equal(t, 0, ec.MaxPatterns)
	assert.Equal(t, 25, ec.AutoRunSteps)
}
