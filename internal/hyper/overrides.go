package hyper

import (
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ParseOverrides decodes a caller-supplied JSON object into Params. An empty
// string is a valid "no overrides" spelling and yields empty Params.
func ParseOverrides(jsonStr string) (Params, error) {
	if jsonStr == "" {
		return Params{}, nil
	}
	var p Params
	if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
		return nil, &MalformedOverrideError{Source: jsonStr, Err: err}
	}
	if p == nil {
		p = Params{}
	}
	return p, nil
}

// ApplySearchOverrides assigns hyperparameter-search overrides onto params.
// Search frameworks hand every value over as a string, so each value is
// coerced to the type of the parameter's current value before assignment:
// booleans accept "true"/"false", numeric parameters accept numeric strings
// (an int parameter rejects fractional values), and string parameters take
// the override verbatim. A key with no existing value has no type to coerce
// against and is rejected.
func ApplySearchOverrides(params Params, overrides map[string]string) error {
	for key, raw := range overrides {
		prior, ok := params[key]
		if !ok {
			return &CoercionError{Key: key, Value: raw, Reason: "no such hyperparameter to take the target type from"}
		}
		coerced, err := coerceToPriorType(prior, raw)
		if err != nil {
			return &CoercionError{Key: key, Value: raw, Reason: err.Error()}
		}
		params[key] = coerced
	}
	return nil
}

// coerceToPriorType converts raw to the Go type of prior, using cty's
// conversion rules for the string→bool and string→number legs.
func coerceToPriorType(prior any, raw string) (any, error) {
	switch prior.(type) {
	case bool:
		val, err := convert.Convert(cty.StringVal(raw), cty.Bool)
		if err != nil {
			return nil, fmt.Errorf("want bool: %w", err)
		}
		var b bool
		if err := gocty.FromCtyValue(val, &b); err != nil {
			return nil, fmt.Errorf("want bool: %w", err)
		}
		return b, nil
	case int, int64:
		val, err := convert.Convert(cty.StringVal(raw), cty.Number)
		if err != nil {
			return nil, fmt.Errorf("want int: %w", err)
		}
		var n int
		if err := gocty.FromCtyValue(val, &n); err != nil {
			return nil, fmt.Errorf("want int: %w", err)
		}
		return n, nil
	case float64:
		val, err := convert.Convert(cty.StringVal(raw), cty.Number)
		if err != nil {
			return nil, fmt.Errorf("want float: %w", err)
		}
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return nil, fmt.Errorf("want float: %w", err)
		}
		return f, nil
	case string:
		return raw, nil
	default:
		return nil, fmt.Errorf("parameter type %T does not support search overrides", prior)
	}
}
