package fleet

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Validator checks record data against the embedded JSON schema of its kind.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles the schema of every kind.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	for _, k := range catalog {
		data, err := schemaFS.ReadFile("schemas/" + k.Slug + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to read schema for %s: %w", k.Slug, err)
		}
		if err := compiler.AddResource(k.Slug+".json", bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema resource %s: %w", k.Slug, err)
		}
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(catalog))}
	for _, k := range catalog {
		s, err := compiler.Compile(k.Slug + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", k.Slug, err)
		}
		v.schemas[k.Slug] = s
	}
	return v, nil
}

var defaultValidator = sync.OnceValues(NewValidator)

// Validate checks data with the shared validator.
func Validate(slug string, data map[string]any) error {
	v, err := defaultValidator()
	if err != nil {
		return err
	}
	return v.Validate(slug, data)
}

// Validate checks data for a kind. Schema violations are returned as a
// *ValidationError keyed by field.
func (v *Validator) Validate(slug string, data map[string]any) error {
	k, err := Lookup(slug)
	if err != nil {
		return err
	}
	schema, ok := v.schemas[slug]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, slug)
	}

	// Round-trip through JSON so typed Go values become plain JSON values.
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s for validation: %w", slug, err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal %s for validation: %w", slug, err)
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	out := &ValidationError{Kind: k.Singular}
	collectErrors(ve, out)
	if len(out.Fields) == 0 {
		out.add("", ve.Message)
	}
	return out
}

var quotedName = regexp.MustCompile(`'([^']+)'`)

// collectErrors walks the cause tree and records every leaf against the
// field it concerns.
func collectErrors(err *jsonschema.ValidationError, out *ValidationError) {
	if len(err.Causes) > 0 {
		for _, cause := range err.Causes {
			collectErrors(cause, out)
		}
		return
	}

	switch {
	case strings.HasSuffix(err.KeywordLocation, "/required"):
		for _, m := range quotedName.FindAllStringSubmatch(err.Message, -1) {
			out.add(m[1], "is required")
		}
	case strings.HasSuffix(err.KeywordLocation, "/additionalProperties"):
		for _, m := range quotedName.FindAllStringSubmatch(err.Message, -1) {
			out.add(m[1], "is not a known field")
		}
	default:
		out.add(fieldOf(err.InstanceLocation), err.Message)
	}
}

// fieldOf returns the top-level property of a JSON pointer.
func fieldOf(location string) string {
	location = strings.TrimPrefix(location, "/")
	if i := strings.IndexByte(location, '/'); i >= 0 {
		location = location[:i]
	}
	return location
}
