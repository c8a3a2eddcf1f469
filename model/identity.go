package model

import "strings"

// InternalPrefix is the scheme+authority used for a resource's internal IRI.
const InternalPrefix = "trellis:data/"

// ToInternal converts an external path (no leading slash, trailing slash
// preserved as given) to the internal IRI used by collaborators.
func ToInternal(path string) string {
	return InternalPrefix + strings.TrimPrefix(path, "/")
}

// ToExternal converts an internal IRI back to an external URL rooted at
// baseURL. baseURL must not carry a trailing slash.
func ToExternal(baseURL, iri string) string {
	path := strings.TrimPrefix(iri, InternalPrefix)
	if path == "" {
		return baseURL + "/"
	}
	return baseURL + "/" + path
}

// NormalizePath strips a leading slash and records whether a trailing slash
// was present; identity lookups always use the slash-stripped form, the
// trailing slash is carried only as a hint for transparent container
// redirection (§4.1).
func NormalizePath(raw string) (path string, hadTrailingSlash bool) {
	path = strings.TrimPrefix(raw, "/")
	hadTrailingSlash = strings.HasSuffix(path, "/") && path != "/"
	path = strings.TrimSuffix(path, "/")
	return path, hadTrailingSlash
}
