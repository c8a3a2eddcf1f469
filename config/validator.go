package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"
)

// validator wraps a single compiled JSON Schema used to validate the
// configuration document before it is unmarshaled into a Config.
type validator struct {
	schema *gojsonschema.Schema
}

// newValidator compiles schemaJSON, whose "$id" becomes the schema's name for
// error messages only.
func newValidator(schemaJSON string) (*validator, error) {
	type idOnly struct {
		ID string `json:"$id"`
	}
	var s idOnly
	if err := json.Unmarshal([]byte(schemaJSON), &s); err != nil {
		return nil, fmt.Errorf("parse error in config schema: %w", err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("cannot compile config schema %s: %w", s.ID, err)
	}
	return &validator{schema: schema}, nil
}

// validateString validates raw JSON text against the compiled schema.
func (v *validator) validateString(raw string) error {
	result, err := v.schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("cannot validate configuration: %w", err)
	}
	if !result.Valid() {
		msg := "invalid configuration:\n"
		for _, e := range result.Errors() {
			msg += fmt.Sprintf("- %s\n", e)
		}
		return errors.New(msg)
	}
	return nil
}
