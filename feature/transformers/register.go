package transformers

import "datafusion/core/transform"

// RegisterBuiltins registers every built-in transformer. Called once
// at startup.
func RegisterBuiltins(reg *transform.Registry) error {
	for _, tr := range []transform.Transformer{
		Scaling{},
		Binning{},
		DateFormat{},
		DateExtract{},
		DateDiff{},
		TextOps{},
		PatternExtract{},
	} {
		if err := reg.Register(tr); err != nil {
			return err
		}
	}
	return nil
}
