package config

import "testing"

const minimalConfig = `{"baseURL": "http://example.org"}`

func TestLoadMinimal(t *testing.T) {
	cfg := Load(minimalConfig)
	if cfg.BaseURL != "http://example.org" {
		t.Fatalf("got %q", cfg.BaseURL)
	}
	if cfg.AnonymousAgent == "" {
		t.Fatal("expected a default anonymous agent")
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		t.Fatal("expected default CORS methods")
	}
}

func TestLoadRejectsMissingBaseURL(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Load to panic on a schema violation")
		}
	}()
	Load(`{}`)
}

func TestLoadFullDocument(t *testing.T) {
	cfg := Load(`{
		"baseURL": "http://example.org",
		"cors": {"allowedOrigins": ["*"], "allowCredentials": false},
		"challenges": [{"scheme": "Bearer", "realm": "ldprepo"}],
		"cacheMaxAgeSeconds": 60,
		"patchCreatesMissing": true
	}`)
	if cfg.CacheMaxAgeSeconds != 60 || !cfg.PatchCreatesMissing {
		t.Fatalf("got %+v", cfg)
	}
	if len(cfg.Challenges) != 1 || cfg.Challenges[0].Scheme != "Bearer" {
		t.Fatalf("got %+v", cfg.Challenges)
	}
}
