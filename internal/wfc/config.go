package wfc

import "strconv"

// Config controls output dimensions, dictionary capacity and the per-call
// work budgets used when setup is spread across frames.
type Config struct {
	Width  int
	Height int

	// MaxPatterns caps the dictionary; 0 means unlimited.
	MaxPatterns int

	Seed int64

	ExtractBudget   int
	AdjacencyBudget int
	InitBudget      int
	AutoRunSteps    int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:           80,
		Height:          80,
		MaxPatterns:     255,
		Seed:            42,
		ExtractBudget:   100,
		AdjacencyBudget: 500,
		InitBudget:      200,
		AutoRunSteps:    25,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparseable or out-of-range values leave the default in place.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	positive := func(key string, dst *int) {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				*dst = parsed
			}
		}
	}
	positive("w", &c.Width)
	positive("h", &c.Height)
	positive("extract_budget", &c.ExtractBudget)
	positive("adjacency_budget", &c.AdjacencyBudget)
	positive("init_budget", &c.InitBudget)
	positive("auto_run_steps", &c.AutoRunSteps)
	if v, ok := cfg["max_patterns"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.MaxPatterns = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	return c
}
