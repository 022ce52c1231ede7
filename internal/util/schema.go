package util

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// ValidationError reports the first argument that does not match a schema.
type ValidationError struct {
	Field   string `json:"field"`
	Value   any    `json:"value"`
	Message string `json:"message"`
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// CreateSchema derives a minimal JSON schema from a struct's exported fields.
//
// Recognised struct tags:
//
//	json         property name; omitempty makes the property optional
//	description  free text
//	enum         "a|b|c" restricts string values
//	minimum      inclusive lower bound for numbers
//	maximum      inclusive upper bound for numbers
//
// Slice fields get an "items" entry carrying the element type.
func CreateSchema(structType any) map[string]any {
	t := reflect.TypeOf(structType)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	properties := map[string]any{}
	schema := map[string]any{"type": "object", "properties": properties}

	if t == nil || t.Kind() != reflect.Struct {
		return schema
	}

	var required []string

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name, optional, skip := jsonName(f)
		if skip {
			continue
		}

		properties[name] = propertySchema(f)

		if !optional && f.Type.Kind() != reflect.Ptr {
			required = append(required, name)
		}
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

func jsonName(f reflect.StructField) (name string, optional, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	parts := strings.Split(tag, ",")

	name = f.Name
	if parts[0] != "" {
		name = parts[0]
	}

	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "omitempty" {
			optional = true
		}
	}

	return name, optional, false
}

func propertySchema(f reflect.StructField) map[string]any {
	prop := map[string]any{"type": jsonType(f.Type)}

	if d := f.Tag.Get("description"); d != "" {
		prop["description"] = d
	}

	if e := f.Tag.Get("enum"); e != "" {
		prop["enum"] = strings.Split(e, "|")
	}

	for _, bound := range []string{"minimum", "maximum"} {
		if v, err := strconv.ParseFloat(f.Tag.Get(bound), 64); err == nil {
			prop[bound] = v
		}
	}

	if k := f.Type.Kind(); k == reflect.Slice || k == reflect.Array {
		prop["items"] = map[string]any{"type": jsonType(f.Type.Elem())}
	}

	return prop
}

// ValidateParameters checks params against schema: required properties must
// be present and known properties must match their type, enum, bounds and
// item type. Unknown properties are allowed.
func ValidateParameters(params map[string]any, schema map[string]any) error {
	for _, name := range requiredFields(schema["required"]) {
		if _, ok := params[name]; !ok {
			return &ValidationError{Field: name, Message: "required field is missing"}
		}
	}

	properties, _ := schema["properties"].(map[string]any)

	for name, value := range params {
		prop, ok := properties[name].(map[string]any)
		if !ok {
			continue
		}

		if err := validateValue(name, value, prop); err != nil {
			return err
		}
	}

	return nil
}

func requiredFields(v any) []string {
	switch req := v.(type) {
	case []string:
		return req
	case []any:
		out := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}

		return out
	default:
		return nil
	}
}

func validateValue(field string, value any, prop map[string]any) error {
	fail := func(format string, args ...any) error {
		return &ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)}
	}

	want, _ := prop["type"].(string)
	if !isType(value, want) {
		return fail("expected type %s, got %T", want, value)
	}

	if value == nil {
		return nil
	}

	if enum, ok := prop["enum"].([]string); ok {
		if !slices.Contains(enum, reflect.ValueOf(value).String()) {
			return fail("must be one of %s", strings.Join(enum, ", "))
		}
	}

	if n, ok := number(value); ok {
		if lo, ok := number(prop["minimum"]); ok && n < lo {
			return fail("must be >= %v", lo)
		}

		if hi, ok := number(prop["maximum"]); ok && n > hi {
			return fail("must be <= %v", hi)
		}
	}

	if items, ok := prop["items"].(map[string]any); ok {
		itemType, _ := items["type"].(string)

		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Slice {
			for i := 0; i < rv.Len(); i++ {
				if e := rv.Index(i).Interface(); !isType(e, itemType) {
					return fail("item %d: expected type %s, got %T", i, itemType, e)
				}
			}
		}
	}

	return nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// jsonType maps a Go type to its JSON schema type name.
func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Ptr:
		return jsonType(t.Elem())
	default:
		return "string"
	}
}

// isType reports whether value, as decoded from JSON or passed from Go,
// fits the schema type. nil fits every type.
func isType(value any, want string) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)

	switch want {
	case "string":
		return rv.Kind() == reflect.String
	case "integer":
		if f, ok := value.(float64); ok {
			return f == float64(int64(f))
		}

		return rv.CanInt() || rv.CanUint()
	case "number":
		return rv.CanInt() || rv.CanUint() || rv.CanFloat()
	case "boolean":
		return rv.Kind() == reflect.Bool
	case "array":
		return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
	case "object":
		return rv.Kind() == reflect.Map || rv.Kind() == reflect.Struct
	default:
		return true
	}
}
