// Package hyper holds the hyperparameter mapping type shared by datasets and
// models, together with the override layering and coercion rules applied when
// a run is configured.
package hyper

// Params is a mapping from hyperparameter name to a JSON-compatible value
// (numbers, strings, booleans, nested mappings). A run owns two of these: one
// for the dataset and one for the model. They are mutable while overrides are
// being layered and must be treated as read-only once a collaborator has been
// constructed from them.
type Params map[string]any

// Clone returns a deep copy of the params, so that layering overrides onto
// the copy never mutates registered defaults.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

// Update overlays other onto p, replacing top-level keys wholesale. Nested
// mappings are never merged: a key present in other fully replaces the prior
// value, whatever its shape. Downstream tuned-defaults files rely on this
// shallow replacement semantics.
func (p Params) Update(other Params) {
	for k, v := range other {
		p[k] = cloneValue(v)
	}
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, nested := range tv {
			out[k] = cloneValue(nested)
		}
		return out
	case Params:
		return map[string]any(tv.Clone())
	case []any:
		out := make([]any, len(tv))
		for i, nested := range tv {
			out[i] = cloneValue(nested)
		}
		return out
	default:
		return v
	}
}
