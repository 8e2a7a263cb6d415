package hyper

import "fmt"

// MalformedOverrideError reports a caller-supplied JSON override string that
// failed to parse. This is fatal: a typo in an override must never silently
// fall back to defaults.
type MalformedOverrideError struct {
	Source string
	Err    error
}

func (e *MalformedOverrideError) Error() string {
	return fmt.Sprintf("malformed hyperparameter override JSON %q: %v", e.Source, e.Err)
}

func (e *MalformedOverrideError) Unwrap() error {
	return e.Err
}

// CoercionError reports a hyperparameter-search override whose string value
// could not be coerced to the type of the existing parameter value.
type CoercionError struct {
	Key    string
	Value  string
	Reason string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot coerce search override %s=%q: %s", e.Key, e.Value, e.Reason)
}
