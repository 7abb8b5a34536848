package suggest

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const responseSchema = `{
	"type": "object",
	"properties": {
		"brand": {"type": ["string", "null"], "maxLength": 200},
		"manufacturer": {"type": ["string", "null"], "maxLength": 200},
		"plasticType": {"type": ["string", "null"], "maxLength": 100}
	}
}`

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("suggestion.json", strings.NewReader(responseSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("suggestion.json")
})

type response struct {
	Brand        *string `json:"brand"`
	Manufacturer *string `json:"manufacturer"`
	PlasticType  *string `json:"plasticType"`
}

// decodeResponse validates a parsed model response against the suggestion
// schema and converts it to a Suggestion.
func decodeResponse(v any) (Suggestion, error) {
	schema, err := compileSchema()
	if err != nil {
		return Suggestion{}, fmt.Errorf("compile schema: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return Suggestion{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return Suggestion{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	var r response
	if err := json.Unmarshal(b, &r); err != nil {
		return Suggestion{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	return Suggestion{
		Brand:        r.Brand,
		Manufacturer: r.Manufacturer,
		PlasticType:  r.PlasticType,
	}, nil
}
