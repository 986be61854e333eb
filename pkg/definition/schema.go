package definition

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// JSONSchema reflects the definition file format into a JSON schema usable
// by editors for both TOML and YAML definitions.
func JSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "toml",
	}

	schema := r.Reflect(&Definition{})
	schema.Title = "Palette application definition"
	schema.Description = "Declares one application's process names and keyboard actions."
	return schema
}

// MarshalSchema renders JSONSchema as indented JSON.
func MarshalSchema() ([]byte, error) {
	return json.MarshalIndent(JSONSchema(), "", "  ")
}
