package hyper

// Typed accessors for reading resolved parameters inside collaborators.
// Values may arrive as Go literals (registered defaults) or as float64
// (anything that passed through JSON), so the numeric accessors accept both.

// Int reads an integer-valued parameter.
func (p Params) Int(key string, fallback int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// Float reads a float-valued parameter.
func (p Params) Float(key string, fallback float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return fallback
	}
}

// Bool reads a boolean parameter.
func (p Params) Bool(key string, fallback bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return fallback
}

// String reads a string parameter.
func (p Params) String(key string, fallback string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return fallback
}
