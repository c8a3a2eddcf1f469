package config

import (
	_ "embed"
)

//go:embed acl_schema.json
var aclSchemaJSON string

var aclValidator = mustValidator(aclSchemaJSON)

func mustValidator(schemaJSON string) *validator {
	v, err := newValidator(schemaJSON)
	if err != nil {
		panic(err)
	}
	return v
}

// ValidateACL validates a raw ACL document (see memstore.ACLStore) against
// the bundled WebAC authorization-table schema.
func ValidateACL(raw string) error {
	return aclValidator.validateString(raw)
}
