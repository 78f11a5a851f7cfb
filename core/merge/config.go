package merge

// Config holds merge defaults supplied by the application
// configuration; a request spec overrides them field by field.
type Config struct {
	// DefaultMethod is used when a request has no method: append|join|smart.
	DefaultMethod string `mapstructure:"default_method" default:"append"`
	// IgnoreCase folds column names by default.
	IgnoreCase bool `mapstructure:"ignore_case" default:"true"`
	// SmartThreshold is the default smart-merge overlap cutoff.
	SmartThreshold float64 `mapstructure:"smart_threshold" default:"0.8"`
	// FuzzyThreshold is the default fuzzy column-match cutoff.
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold" default:"0.8"`
	// NumericFill is the default numeric fill method.
	NumericFill string `mapstructure:"numeric_fill" default:"mean"`
	// TextFill is the default text fill method.
	TextFill string `mapstructure:"text_fill" default:"empty"`
	// DatetimeFill is the default datetime fill method.
	DatetimeFill string `mapstructure:"datetime_fill" default:"ffill"`
}

// ApplyDefaults fills unset spec fields from the configuration.
func (c Config) ApplyDefaults(spec Spec) Spec {
	if spec.Method == "" {
		spec.Method = Method(c.DefaultMethod)
	}
	if spec.IgnoreCase == nil {
		v := c.IgnoreCase
		spec.IgnoreCase = &v
	}
	if spec.MatchThreshold == 0 {
		spec.MatchThreshold = c.FuzzyThreshold
	}
	if spec.SmartThreshold == 0 {
		spec.SmartThreshold = c.SmartThreshold
	}
	if spec.Fill.Enabled {
		if spec.Fill.Numeric == "" {
			spec.Fill.Numeric = FillMethod(c.NumericFill)
		}
		if spec.Fill.Text == "" {
			spec.Fill.Text = FillMethod(c.TextFill)
		}
		if spec.Fill.Datetime == "" {
			spec.Fill.Datetime = FillMethod(c.DatetimeFill)
		}
	}
	return spec
}
