package transform

import (
	"fmt"

	"datafusion/core/table"
)

// ParamType enumerates the kinds of parameters a transformer can
// declare.
type ParamType string

const (
	ParamString         ParamType = "string"
	ParamNumber         ParamType = "number"
	ParamBoolean        ParamType = "boolean"
	ParamSelect         ParamType = "select"
	ParamSelectMultiple ParamType = "select_multiple"
)

// Param describes one declared transformer parameter. Columns marks a
// select whose options are the column names of the current table, so
// a UI can populate it dynamically instead of using Options.
type Param struct {
	Name     string    `json:"name"`
	Type     ParamType `json:"type"`
	Label    string    `json:"label"`
	Required bool      `json:"required"`
	Default  any       `json:"default,omitempty"`
	Options  []string  `json:"options,omitempty"`
	Columns  bool      `json:"columns,omitempty"`
}

// Transformer is the plugin contract. Transform must not mutate its
// input table.
type Transformer interface {
	Name() string
	Description() string
	Params() []Param
	Transform(t *table.Table, params map[string]any) (*table.Table, error)
}

// Registry holds registered transformers in registration order.
type Registry struct {
	order  []string
	byName map[string]Transformer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Transformer)}
}

// Register adds a transformer. Duplicate names are rejected so a
// misconfigured startup fails loudly instead of shadowing a plugin.
func (r *Registry) Register(t Transformer) error {
	name := t.Name()
	if name == "" {
		return fmt.Errorf("%w: transformer with empty name", ErrInvalidStep)
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: transformer %q already registered", ErrInvalidStep, name)
	}
	r.order = append(r.order, name)
	r.byName[name] = t
	return nil
}

// Lookup returns the transformer registered under name.
func (r *Registry) Lookup(name string) (Transformer, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// List returns the registered transformers in registration order.
func (r *Registry) List() []Transformer {
	out := make([]Transformer, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// ValidateParams checks the given params against the declared
// parameter list: required parameters must be present and select
// values must be one of the declared options. Unknown parameter names
// are rejected.
func ValidateParams(declared []Param, params map[string]any) error {
	known := make(map[string]Param, len(declared))
	for _, p := range declared {
		known[p.Name] = p
	}
	for name := range params {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("%w: unknown parameter %q", ErrInvalidStep, name)
		}
	}
	for _, p := range declared {
		raw, present := params[p.Name]
		if !present {
			if p.Required && p.Default == nil {
				return fmt.Errorf("%w: missing required parameter %q", ErrInvalidStep, p.Name)
			}
			continue
		}
		if p.Type == ParamSelect && len(p.Options) > 0 {
			s, ok := raw.(string)
			if !ok {
				return fmt.Errorf("%w: parameter %q must be a string", ErrInvalidStep, p.Name)
			}
			if !containsString(p.Options, s) {
				return fmt.Errorf("%w: parameter %q has no option %q", ErrInvalidStep, p.Name, s)
			}
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// StringParam reads a string parameter, falling back to the declared
// default.
func StringParam(declared []Param, params map[string]any, name string) string {
	if raw, ok := params[name]; ok {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	for _, p := range declared {
		if p.Name == name {
			if s, ok := p.Default.(string); ok {
				return s
			}
		}
	}
	return ""
}

// NumberParam reads a numeric parameter, falling back to the declared
// default. JSON decoding delivers numbers as float64.
func NumberParam(declared []Param, params map[string]any, name string) (float64, bool) {
	if raw, ok := params[name]; ok {
		switch v := raw.(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			if f, ok := table.Parse(v).Number(); ok {
				return f, true
			}
		}
	}
	for _, p := range declared {
		if p.Name == name {
			if f, ok := p.Default.(float64); ok {
				return f, true
			}
			if i, ok := p.Default.(int); ok {
				return float64(i), true
			}
		}
	}
	return 0, false
}

// BoolParam reads a boolean parameter, falling back to the declared
// default.
func BoolParam(declared []Param, params map[string]any, name string) bool {
	if raw, ok := params[name]; ok {
		if b, ok := raw.(bool); ok {
			return b
		}
	}
	for _, p := range declared {
		if p.Name == name {
			if b, ok := p.Default.(bool); ok {
				return b
			}
		}
	}
	return false
}

// StringsParam reads a select_multiple parameter as a string slice.
func StringsParam(params map[string]any, name string) []string {
	raw, ok := params[name]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
