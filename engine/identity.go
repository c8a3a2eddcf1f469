package engine

import "strings"

// internalPrefix is the internal-IRI scheme/authority every resource is
// addressed under, per §3's "Resource Identity".
const internalPrefix = "trellis:data/"

// toInternal maps an external, normalized path to its internal IRI.
func toInternal(path string) string {
	return internalPrefix + path
}

// toExternal maps a normalized path (not an internal IRI) to its external
// URL under baseURL.
func toExternal(baseURL, path string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if path == "" {
		return base + "/"
	}
	return base + "/" + path
}

// parentPath returns the path of path's containing resource, and true unless
// path is already the root.
func parentPath(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i], true
	}
	return "", true
}
