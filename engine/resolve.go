package engine

import (
	"context"
	"net/http"
	"time"

	"github.com/ldpworks/ldprepo/model"
)

// handlerContext carries the per-request state every method handler needs:
// the parsed request model, the resolved agent, and the target's internal
// IRI. One is constructed per request by Engine.dispatch.
type handlerContext struct {
	engine   *Engine
	ctx      context.Context
	req      *model.Request
	agentIRI string
	iri      string
}

func (h *handlerContext) externalURL() string {
	return toExternal(h.req.BaseURL, h.req.Path)
}

// resolved is the outcome of resolving the request's target: either the
// current resource, a specific Memento, and whether a version was requested.
type resolved struct {
	resource  model.Resource
	isMemento bool
	at        time.Time
}

// resolve loads the current resource (or, when req.Version is set, the
// nearest Memento not after that instant), per §4.6 GET/HEAD step 1.
func (h *handlerContext) resolve() (resolved, *HTTPError) {
	if h.req.Version != nil {
		at := time.Unix(*h.req.Version, 0).UTC()
		r, err := h.engine.mementos.Get(h.ctx, h.iri, at)
		if err != nil {
			return resolved{}, internalError(err.Error())
		}
		if r.Metadata.State != model.Live {
			return resolved{}, notFound("no such memento")
		}
		return resolved{resource: r, isMemento: true, at: at}, nil
	}

	r, err := h.engine.resources.Get(h.ctx, h.iri)
	if err != nil {
		return resolved{}, internalError(err.Error())
	}
	switch r.Metadata.State {
	case model.Missing:
		return resolved{}, notFound("no such resource")
	case model.Deleted:
		return resolved{}, gone()
	default:
		return resolved{resource: r}, nil
	}
}

// resolveForWrite loads the current resource without failing on Missing, so
// POST/PUT/PATCH/DELETE can each apply their own missing-resource policy.
func (h *handlerContext) resolveForWrite() (model.Resource, *HTTPError) {
	r, err := h.engine.resources.Get(h.ctx, h.iri)
	if err != nil {
		return model.Resource{}, internalError(err.Error())
	}
	return r, nil
}

// timeGate finds the Memento nearest to, but not after, instant, used by the
// Accept-Datetime redirect in §4.6 GET/HEAD step 2.
func (h *handlerContext) timeGate(instant time.Time) (model.Resource, bool, *HTTPError) {
	r, err := h.engine.mementos.Get(h.ctx, h.iri, instant)
	if err != nil {
		return model.Resource{}, false, internalError(err.Error())
	}
	if r.Metadata.State != model.Live {
		return model.Resource{}, false, nil
	}
	return r, true, nil
}

// allowedMethods returns the method set §6 grants for the resolved
// interaction model, adjusted for ext=timemap / version (GET/HEAD/OPTIONS
// only) and ext=acl (no POST).
func allowedMethods(req *model.Request, m model.InteractionModel) []string {
	if req.Ext == "timemap" || req.Version != nil {
		return []string{http.MethodGet, http.MethodHead, http.MethodOptions}
	}
	if req.Ext == "acl" {
		return []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodPatch, http.MethodDelete}
	}
	return model.AllowedMethods(m)
}
