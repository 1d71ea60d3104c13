package app

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"sort"

	_ "golang.org/x/image/bmp"

	"wfc-synth/internal/core"
	_ "wfc-synth/internal/sources/brick"
	_ "wfc-synth/internal/sources/checker"
	_ "wfc-synth/internal/sources/rooms"
	"wfc-synth/internal/wfc"
)

// SourceNames lists the registered built-in samples in sorted order.
func SourceNames() []string {
	names := make([]string, 0, len(core.Sources()))
	for name := range core.Sources() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadSource resolves name as a built-in sample first and otherwise decodes
// it as an image file.
func LoadSource(name string, params map[string]string) (*wfc.Bitmap, error) {
	if factory, ok := core.Sources()[name]; ok {
		return wfc.FromImage(factory(params)), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("source %q is neither a built-in sample %v nor a readable file: %w", name, SourceNames(), err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return wfc.FromImage(img), nil
}
