package export

import "strings"

// Config controls which output formats are offered.
type Config struct {
	// Formats is the comma-separated list of enabled formats.
	Formats string `mapstructure:"formats" default:"csv,xlsx,json"`
}

// Enabled reports whether the format is in the configured list. An
// empty list enables everything.
func (c Config) Enabled(f Format) bool {
	if strings.TrimSpace(c.Formats) == "" {
		return true
	}
	for _, part := range strings.Split(c.Formats, ",") {
		if strings.EqualFold(strings.TrimSpace(part), string(f)) {
			return true
		}
	}
	return false
}
