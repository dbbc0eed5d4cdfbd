package analyzer

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// RequestSchema describes the body forwarded to the upstream model.
func RequestSchema() map[string]any {
	return generateSchema(&ChatRequest{})
}

func generateSchema(v any) map[string]any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	s := r.Reflect(v)
	b, _ := json.Marshal(s)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}
