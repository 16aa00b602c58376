package dispatch

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// ParamType is the primitive type of an operation parameter
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeBoolean ParamType = "boolean"
	TypeInteger ParamType = "integer"
)

// Param describes one named argument of an operation
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool

	// Default is applied when an optional argument is absent
	Default any

	// Enum restricts a string parameter to a closed set of values
	Enum []string

	// Decimal marks a string parameter that must parse as a decimal amount
	Decimal bool
}

// Payload is the structured result of a successful operation
type Payload map[string]any

// Handler executes an operation with validated, defaulted arguments
type Handler func(ctx context.Context, args Args) (Payload, error)

// Operation is a named, schema-described unit of functionality
type Operation struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler
}

// InputSchema returns the JSON Schema describing the operation's arguments
func (op Operation) InputSchema() *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(op.Params)),
	}

	for _, p := range op.Params {
		prop := &jsonschema.Schema{
			Type:        string(p.Type),
			Description: p.Description,
		}
		if p.Default != nil {
			if raw, err := json.Marshal(p.Default); err == nil {
				prop.Default = raw
			}
		}
		for _, v := range p.Enum {
			prop.Enum = append(prop.Enum, v)
		}
		schema.Properties[p.Name] = prop
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}

	return schema
}

// Args holds validated arguments. Absent optional arguments without a
// default read as zero values.
type Args map[string]any

// String returns the string argument name, or "" when absent
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Bool returns the boolean argument name, or false when absent
func (a Args) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// Int returns the integer argument name, or 0 when absent
func (a Args) Int(name string) int {
	switch v := a[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Has reports whether name was supplied or defaulted
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}
