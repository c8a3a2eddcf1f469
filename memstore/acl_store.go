package memstore

import (
	"context"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ldpworks/ldprepo/config"
	"github.com/ldpworks/ldprepo/services"
)

// aclEntry grants modes to agent for every resource under prefix.
type aclEntry struct {
	Agent  string   `json:"agent"`
	Prefix string   `json:"prefix"`
	Modes  []string `json:"modes"`
}

// ACLStore evaluates a small WebAC-shaped authorization table: a flat list
// of (agent, path prefix, granted modes) entries, loaded once and validated
// against config.ValidateACL. A longer matching prefix wins over a shorter
// one; entries for a more specific agent are not otherwise prioritized.
type ACLStore struct {
	entries []aclEntry
}

// NewACLStore parses and validates raw (a JSON array of entries, see
// config/acl_schema.json) into an ACLStore.
func NewACLStore(raw string) (*ACLStore, error) {
	if err := config.ValidateACL(raw); err != nil {
		return nil, err
	}
	var entries []aclEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	return &ACLStore{entries: entries}, nil
}

var _ services.AccessControlService = (*ACLStore)(nil)

// GetAccessModes implements services.AccessControlService.
func (s *ACLStore) GetAccessModes(ctx context.Context, iri string, agentIRI string) (services.ModeSet, error) {
	modes := services.ModeSet{}
	bestLen := -1
	for _, e := range s.entries {
		if e.Agent != agentIRI {
			continue
		}
		if !strings.HasPrefix(iri, e.Prefix) {
			continue
		}
		if len(e.Prefix) < bestLen {
			continue
		}
		if len(e.Prefix) > bestLen {
			modes = services.ModeSet{}
			bestLen = len(e.Prefix)
		}
		for _, m := range e.Modes {
			modes[services.Mode(m)] = true
		}
	}
	return modes, nil
}
