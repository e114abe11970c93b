package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Draft7 is the JSON Schema dialect documents are generated for.
const Draft7 = "http://json-schema.org/draft-07/schema#"

// ToJSONSchema describes s as a JSON Schema draft-7 root document.
func ToJSONSchema(s Schema) *jsonschema.Schema {
	root := *s.JSONSchema()
	root.Version = Draft7

	return &root
}

// MarshalJSONSchema renders the JSON Schema document of s, indented.
//
// The output is deterministic: properties keep their declaration order.
func MarshalJSONSchema(s Schema) ([]byte, error) {
	return json.MarshalIndent(ToJSONSchema(s), "", "  ")
}
