package access

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ldpworks/ldprepo/config"
	"github.com/ldpworks/ldprepo/services"
)

// Denial describes why the authorization filter refused a request, carrying
// enough information for the engine's response assembly to write the
// correct status and, for a 401, the WWW-Authenticate challenges.
type Denial struct {
	Status     int
	Challenges []config.Challenge
}

// RequiredMode reports the ACL mode required for method against ext, and
// whether the method is recognized at all. ext is "acl" for the
// access-control graph extension and "" otherwise; every other extension
// (timemap, a version selector, ...) is read-like and uses the default
// column same as a plain resource request.
func RequiredMode(method string, ext string) (services.Mode, bool) {
	if ext == "acl" {
		switch method {
		case http.MethodHead, http.MethodGet, http.MethodOptions,
			http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			return services.ModeControl, true
		default:
			return "", false
		}
	}
	switch method {
	case http.MethodHead, http.MethodGet, http.MethodOptions:
		return services.ModeRead, true
	case http.MethodPost:
		return services.ModeAppend, true
	case http.MethodPut, http.MethodPatch, http.MethodDelete:
		return services.ModeWrite, true
	default:
		return "", false
	}
}

// AuthorizationBuilder configures the §4.4 authorization filter.
type AuthorizationBuilder struct {
	AccessControl  services.AccessControlService
	AnonymousAgent string
	Challenges     []config.Challenge
}

// Authorize evaluates the authorization filter for a request against iri,
// given the already-resolved required mode (see RequiredMode). A
// POST-replaces-existing-containee case should pass services.ModeWrite
// directly rather than relying on RequiredMode's default Append, per §4.4.
//
// It returns nil on success, or a *Denial describing the refusal.
func (b AuthorizationBuilder) Authorize(ctx context.Context, iri string, agentIRI string, required services.Mode) *Denial {
	modes, err := b.AccessControl.GetAccessModes(ctx, iri, agentIRI)
	if err != nil {
		return &Denial{Status: http.StatusInternalServerError}
	}
	if modes.Has(required) {
		return nil
	}
	if agentIRI == b.AnonymousAgent {
		return &Denial{Status: http.StatusUnauthorized, Challenges: b.Challenges}
	}
	return &Denial{Status: http.StatusForbidden}
}

// WriteChallenges sets one WWW-Authenticate header per configured challenge,
// each carrying a realm parameter, per §4.4.
func WriteChallenges(w http.ResponseWriter, challenges []config.Challenge) {
	for _, c := range challenges {
		w.Header().Add("WWW-Authenticate", fmt.Sprintf(`%s realm=%q`, c.Scheme, c.Realm))
	}
}
