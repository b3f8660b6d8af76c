package ui

import (
	"fmt"

	"trialpower/domain/power"
	"trialpower/internal/errors"

	"github.com/tidwall/gjson"
)

// decodeInputs reads {"inputs": {...}} from body. Numbers and strings are
// both accepted and typed against the test's declarations; an absent body
// or inputs object selects every default.
func decodeInputs(spec *power.TestSpec, body []byte) (power.Inputs, error) {
	if len(body) == 0 {
		return power.NewInputs(), nil
	}
	if !gjson.ValidBytes(body) {
		return power.Inputs{}, errors.InvalidInput("request body is not valid JSON")
	}

	inputs := gjson.GetBytes(body, "inputs")
	if !inputs.Exists() || inputs.Type == gjson.Null {
		return power.NewInputs(), nil
	}
	if !inputs.IsObject() {
		return power.Inputs{}, errors.InvalidInput("inputs must be an object")
	}

	raw := map[string]string{}
	var bad error
	inputs.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.Number:
			raw[key.String()] = value.Raw
		case gjson.String:
			raw[key.String()] = value.Str
		case gjson.Null:
		default:
			bad = errors.InvalidInput(fmt.Sprintf("input %q must be a number or string", key.String()))
			return false
		}
		return true
	})
	if bad != nil {
		return power.Inputs{}, bad
	}

	in, err := spec.ParseInputs(raw)
	if err != nil {
		return power.Inputs{}, errors.BadInput(err, "invalid inputs")
	}
	return in, nil
}
