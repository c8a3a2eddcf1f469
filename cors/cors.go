// Package cors implements the §4.5 CORS filter: simple-request header
// echoing and preflight validation, grounded in the ambient stack's own
// router-level CORS middleware but generalized to a configurable policy
// instead of a single hardcoded wildcard.
package cors

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ldpworks/ldprepo/config"
)

// Middleware returns mux middleware implementing the §4.5 CORS filter against
// policy. The engine installs it right after the request-ID middleware and
// before authentication, same as the ambient stack installs its CORS
// middleware before any route-specific handling.
func Middleware(policy config.CORS) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !originAllowed(policy, origin) {
				next.ServeHTTP(w, r)
				return
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				handlePreflight(w, r, policy, origin)
				return
			}

			applySimple(w, policy, origin)
			next.ServeHTTP(w, r)
		})
	}
}

func applySimple(w http.ResponseWriter, policy config.CORS, origin string) {
	w.Header().Set("Access-Control-Allow-Origin", allowOriginValue(policy, origin))
	if policy.AllowCredentials {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	if len(policy.ExposedHeaders) > 0 {
		w.Header().Set("Access-Control-Expose-Headers", strings.Join(policy.ExposedHeaders, ", "))
	}
}

// safeMethods are always implicitly allowed for CORS purposes, per §4.5.
var safeMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}

func handlePreflight(w http.ResponseWriter, r *http.Request, policy config.CORS, origin string) {
	requestedMethod := r.Header.Get("Access-Control-Request-Method")
	if !methodAllowed(policy, requestedMethod) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	requestedHeaders := splitHeaderList(r.Header.Get("Access-Control-Request-Headers"))
	matchedHeaders, ok := headersAllowed(policy, requestedHeaders)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", allowOriginValue(policy, origin))
	w.Header().Set("Access-Control-Allow-Methods", strings.Join(allowedMethodsUnion(policy), ", "))
	if len(matchedHeaders) > 0 {
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(matchedHeaders, ", "))
	}
	if policy.MaxAgeSeconds > 0 {
		w.Header().Set("Access-Control-Max-Age", strconv.Itoa(policy.MaxAgeSeconds))
	}
	if policy.AllowCredentials {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.WriteHeader(http.StatusNoContent)
}

func originAllowed(policy config.CORS, origin string) bool {
	if len(policy.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range policy.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func allowOriginValue(policy config.CORS, origin string) string {
	for _, o := range policy.AllowedOrigins {
		if o == "*" && !policy.AllowCredentials {
			return "*"
		}
	}
	return origin
}

func methodAllowed(policy config.CORS, method string) bool {
	if method == "" {
		return false
	}
	for _, m := range safeMethods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	for _, m := range policy.AllowedMethods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

func allowedMethodsUnion(policy config.CORS) []string {
	seen := map[string]bool{}
	var out []string
	add := func(m string) {
		u := strings.ToUpper(m)
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	for _, m := range safeMethods {
		add(m)
	}
	for _, m := range policy.AllowedMethods {
		add(m)
	}
	return out
}

func headersAllowed(policy config.CORS, requested []string) ([]string, bool) {
	if len(requested) == 0 {
		return nil, true
	}
	allowed := make(map[string]bool, len(policy.AllowedHeaders))
	for _, h := range policy.AllowedHeaders {
		allowed[strings.ToLower(h)] = true
	}
	matched := make([]string, 0, len(requested))
	for _, h := range requested {
		lower := strings.ToLower(strings.TrimSpace(h))
		if !allowed[lower] {
			return nil, false
		}
		matched = append(matched, lower)
	}
	return matched, true
}

func splitHeaderList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
