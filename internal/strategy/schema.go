package strategy

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

// ParamsSchema returns the JSON schema of a strategy's parameters. Property
// names follow the parameter keys and every property carries its default.
func ParamsSchema(strategy types.StrategyType) (string, error) {
	e, ok := Describe(strategy)
	if !ok {
		return "", errors.Newf(errors.ErrCodeUnsupportedStrategy, "unsupported strategy %q", strategy)
	}

	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	r.ExpandedStruct = true
	r.FieldNameTag = "mapstructure"

	schema := r.Reflect(e.params)
	schema.Title = e.Name
	schema.Description = e.Description

	if schema.Properties != nil {
		for key, value := range e.Defaults {
			if prop, found := schema.Properties.Get(key); found {
				prop.Default = value
			}
		}
	}

	b, err := json.Marshal(schema)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to marshal parameter schema", err)
	}

	return string(b), nil
}
