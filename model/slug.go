package model

import (
	"net/url"
	"regexp"
	"strings"
)

var whitespaceOrSlash = regexp.MustCompile(`[\s/]+`)

// SanitizeSlug implements the §4.1 Slug sanitization algorithm: percent-decode
// (falling back to the raw header on decode failure), strip everything from
// the first '#' or '?', collapse whitespace/slash runs to a single
// underscore, and report whether the result is unusable (caller should then
// fall back to a server-generated identifier).
func SanitizeSlug(raw string) (slug string, ok bool) {
	if raw == "" {
		return "", false
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		decoded = raw
	}
	if i := strings.IndexAny(decoded, "#?"); i >= 0 {
		decoded = decoded[:i]
	}
	decoded = whitespaceOrSlash.ReplaceAllString(decoded, "_")
	decoded = strings.Trim(decoded, "_")
	if decoded == "" {
		return "", false
	}
	return decoded, true
}

// ChildPath joins a sanitized slug (or generated identifier) onto a parent
// path per §4.1.
func ChildPath(parentPath, slug string) string {
	if parentPath == "" {
		return slug
	}
	return parentPath + "/" + slug
}
