// Package access implements the §4.4 authentication and authorization
// filters: mapping a transport principal to an agent IRI, and mapping
// request method + ext to the ACL modes the Access Control Service must
// grant.
package access

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/ldpworks/ldprepo/logger"
)

type contextKeyAgentType struct{}

var contextKeyAgent = &contextKeyAgentType{}

// ClaimToAgent maps a validated JWT's claims to an internal agent IRI.
type ClaimToAgent func(claims jwt.MapClaims) string

// AuthenticationBuilder configures the §4.4 authentication filter, grounded
// in the ambient stack's own bearer-token-or-cookie JWT middleware plus its
// backdoor static-principal mode for local development and tests.
type AuthenticationBuilder struct {
	// AnonymousAgent is attached when no principal can be determined.
	AnonymousAgent string
	// Keyfunc resolves the signing key for a JWT, per golang-jwt/jwt/v5's
	// Keyfunc contract. If nil, JWT validation is skipped entirely.
	Keyfunc jwt.Keyfunc
	// ClaimToAgent maps validated claims to an agent IRI. Defaults to the
	// "sub" claim when nil.
	ClaimToAgent ClaimToAgent
	// Backdoors maps a literal bearer token to an agent IRI, bypassing JWT
	// validation entirely — for local development and tests only.
	Backdoors map[string]string
}

// Middleware returns mux middleware implementing the authentication filter:
// it attaches the resolved agent IRI to the request context and to the
// request-scoped logger, defaulting to AnonymousAgent when no principal can
// be established.
func (b AuthenticationBuilder) Middleware() mux.MiddlewareFunc {
	claimToAgent := b.ClaimToAgent
	if claimToAgent == nil {
		claimToAgent = func(claims jwt.MapClaims) string {
			if sub, ok := claims["sub"].(string); ok {
				return sub
			}
			return ""
		}
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agentIRI := b.AnonymousAgent

			token := bearerToken(r)
			if token != "" {
				if backdoor, ok := b.Backdoors[token]; ok {
					agentIRI = backdoor
				} else if b.Keyfunc != nil {
					claims := jwt.MapClaims{}
					parsed, err := jwt.ParseWithClaims(token, claims, b.Keyfunc)
					if err == nil && parsed.Valid {
						if iri := claimToAgent(claims); iri != "" {
							agentIRI = iri
						}
					} else if err != nil {
						logger.FromContext(r.Context()).WithError(err).Debug("rejected bearer token")
					}
				}
			}

			ctx := ContextWithAgent(r.Context(), agentIRI)
			ctx = logger.ContextWithAgent(ctx, agentIRI)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts a bearer token from the Authorization header, falling
// back to a JWT cookie for the benefit of browser-based clients, the same
// two transports the ambient stack's own JWT middleware accepts.
func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if len(auth) >= 7 && strings.EqualFold(auth[:7], "bearer ") {
			return strings.TrimSpace(auth[7:])
		}
		return strings.TrimSpace(auth)
	}
	if cookie, err := r.Cookie("ldprepo-jwt"); err == nil && cookie != nil {
		return cookie.Value
	}
	return ""
}

// ContextWithAgent returns a context carrying the resolved agent IRI.
func ContextWithAgent(ctx context.Context, agentIRI string) context.Context {
	return context.WithValue(ctx, contextKeyAgent, agentIRI)
}

// AgentFromContext returns the agent IRI attached by the authentication
// filter, or "" if none is present.
func AgentFromContext(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyAgent).(string)
	return v
}
