// Package config loads and validates the engine's deployment configuration,
// per §4.9: a JSON document validated against a bundled JSON Schema, with a
// secondary environment-variable overlay for the handful of settings that
// commonly vary between deployments of the same image.
package config

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/joeshaw/envdecode"
)

//go:embed config_schema.json
var configSchemaJSON string

// Challenge is one WWW-Authenticate challenge offered to an anonymous agent
// denied access, per §4.4.
type Challenge struct {
	Scheme string `json:"scheme"`
	Realm  string `json:"realm"`
}

// CORS is the §4.5 CORS filter's policy.
type CORS struct {
	AllowedOrigins   []string `json:"allowedOrigins"`
	AllowedMethods   []string `json:"allowedMethods"`
	AllowedHeaders   []string `json:"allowedHeaders"`
	ExposedHeaders   []string `json:"exposedHeaders"`
	AllowCredentials bool     `json:"allowCredentials"`
	MaxAgeSeconds    int      `json:"maxAgeSeconds"`
}

// Config is the engine's immutable runtime configuration, loaded once at
// process startup.
type Config struct {
	BaseURL string `json:"baseURL"`

	CORS       CORS        `json:"cors"`
	Challenges []Challenge `json:"challenges"`

	CacheMaxAgeSeconds int `json:"cacheMaxAgeSeconds"`

	WebSubHub string `json:"webSubHub"`

	// ExtensionGraphs maps an ext query value (such as "acl") to the named
	// graph it addresses. The engine does not read this field.
	ExtensionGraphs map[string]string `json:"extensionGraphs"`

	// PutCreatesUncontained makes a creating PUT skip the parent: no
	// containment triple is added to it and no event is emitted for it.
	PutCreatesUncontained bool `json:"putCreatesUncontained"`

	// PurgeBinaryOnDelete deletes the stored bytes of a NonRDFSource's binary
	// content immediately on DELETE rather than retaining it for Mementos.
	PurgeBinaryOnDelete bool `json:"purgeBinaryOnDelete"`

	DefaultJSONLDProfile string `json:"defaultJSONLDProfile"`

	// PatchCreatesMissing selects the §9 PATCH-to-missing resolution: false
	// (default) returns 404, true creates the resource and returns 201.
	PatchCreatesMissing bool `json:"patchCreatesMissing"`

	// AnonymousAgent is the well-known agent IRI assigned to unauthenticated
	// requests, per §4.4.
	AnonymousAgent string `json:"anonymousAgent"`
}

// envOverlay is decoded with envdecode and applied on top of the JSON
// document for the subset of settings that commonly vary by deployment
// environment rather than by application configuration.
type envOverlay struct {
	BaseURL              string `env:"LDPREPO_BASE_URL"`
	WebSubHub            string `env:"LDPREPO_WEBSUB_HUB"`
	CacheMaxAgeSeconds   int    `env:"LDPREPO_CACHE_MAX_AGE_SECONDS"`
	AnonymousAgent       string `env:"LDPREPO_ANONYMOUS_AGENT"`
	DefaultJSONLDProfile string `env:"LDPREPO_DEFAULT_JSONLD_PROFILE"`
}

// defaultAnonymousAgent is used when neither the JSON document nor the
// environment overlay names one.
const defaultAnonymousAgent = "http://www.w3.org/ns/auth/acl#AuthenticatedAgent"

// Load validates raw against the bundled schema, unmarshals it, and applies
// the environment overlay. It panics on a malformed document, matching the
// ambient stack's own fail-fast Builder convention — configuration errors are
// a deployment defect, not a request-time condition.
func Load(raw string) *Config {
	v, err := newValidator(configSchemaJSON)
	if err != nil {
		panic(fmt.Errorf("cannot compile configuration schema: %w", err))
	}
	if err := v.validateString(raw); err != nil {
		panic(err)
	}

	var cfg Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		panic(fmt.Errorf("parse error in configuration: %w", err))
	}

	var overlay envOverlay
	if err := envdecode.Decode(&overlay); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		panic(fmt.Errorf("cannot decode environment overlay: %w", err))
	}
	if overlay.BaseURL != "" {
		cfg.BaseURL = overlay.BaseURL
	}
	if overlay.WebSubHub != "" {
		cfg.WebSubHub = overlay.WebSubHub
	}
	if overlay.CacheMaxAgeSeconds != 0 {
		cfg.CacheMaxAgeSeconds = overlay.CacheMaxAgeSeconds
	}
	if overlay.AnonymousAgent != "" {
		cfg.AnonymousAgent = overlay.AnonymousAgent
	}
	if overlay.DefaultJSONLDProfile != "" {
		cfg.DefaultJSONLDProfile = overlay.DefaultJSONLDProfile
	}

	if cfg.AnonymousAgent == "" {
		cfg.AnonymousAgent = defaultAnonymousAgent
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "HEAD", "OPTIONS", "POST", "PUT", "PATCH", "DELETE"}
	}

	return &cfg
}
