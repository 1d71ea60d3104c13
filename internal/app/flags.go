package app

import (
	"flag"
	"strconv"

	"wfc-synth/internal/wfc"
)

// Config represents the command-line parameters shared by the executables.
type Config struct {
	Source      string
	Scale       int
	TPS         int
	Seed        int64
	Width       int
	Height      int
	MaxPatterns int
	LogLevel    string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	d := wfc.DefaultConfig()
	return &Config{
		Source:      "brick",
		Scale:       8,
		TPS:         60,
		Seed:        d.Seed,
		Width:       d.Width,
		Height:      d.Height,
		MaxPatterns: d.MaxPatterns,
		LogLevel:    "info",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Source, "source", c.Source, "built-in sample name or path to a PNG/BMP image")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 seeds from the clock in the viewer)")
	fs.IntVar(&c.Width, "w", c.Width, "output width in cells")
	fs.IntVar(&c.Height, "h", c.Height, "output height in cells")
	fs.IntVar(&c.MaxPatterns, "max-patterns", c.MaxPatterns, "pattern dictionary capacity (0 = unlimited)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "logrus level (debug, info, warn, error)")
}

// Engine converts the flags into an engine configuration.
func (c *Config) Engine() wfc.Config {
	return wfc.FromMap(map[string]string{
		"w":            strconv.Itoa(c.Width),
		"h":            strconv.Itoa(c.Height),
		"seed":         strconv.FormatInt(c.Seed, 10),
		"max_patterns": strconv.Itoa(c.MaxPatterns),
	})
}
