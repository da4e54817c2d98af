package pipeline

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// validate checks a decoded config value against the pipeline schema.
func validate(raw any) error {
	resolved, err := configSchema().Resolve(nil)
	if err != nil {
		return fmt.Errorf("resolving config schema: %w", err)
	}

	return resolved.Validate(raw)
}

func configSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:     "object",
		Required: []string{"source", "sink"},
		Properties: map[string]*jsonschema.Schema{
			"source": {
				Type:     "object",
				Required: []string{"type"},
				Properties: map[string]*jsonschema.Schema{
					"type":     enum("json", "syslog-rfc5424", "syslog-rfc3164"),
					"mode":     enum("strict", "lenient"),
					"on_error": enum("skip", "discard"),
				},
				AdditionalProperties: falseSchema(),
			},
			"transforms": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type:     "object",
					Required: []string{"type", "source"},
					Properties: map[string]*jsonschema.Schema{
						"type":       enum("json"),
						"mode":       enum("serialize", "deserialize"),
						"source":     {Type: "string"},
						"target":     {Type: "string"},
						"on_success": enum("skip", "remove"),
						"on_error":   enum("skip", "discard"),
					},
					AdditionalProperties: falseSchema(),
				},
			},
			"sink": {
				Type:     "object",
				Required: []string{"type"},
				Properties: map[string]*jsonschema.Schema{
					"type": enum("json", "syslog-rfc5424", "syslog-rfc3164"),
				},
				AdditionalProperties: falseSchema(),
			},
		},
		AdditionalProperties: falseSchema(),
	}
}

func enum(vals ...string) *jsonschema.Schema {
	anys := make([]any, len(vals))
	for i, v := range vals {
		anys[i] = v
	}

	return &jsonschema.Schema{Type: "string", Enum: anys}
}

// falseSchema validates nothing; it marshals to JSON false.
func falseSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Not: &jsonschema.Schema{}}
}
