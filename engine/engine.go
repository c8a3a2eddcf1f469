// Package engine implements the HTTP protocol engine: the ordered filter
// chain and per-method handlers described by §2 and §4, wired against the
// collaborator interfaces declared in the services package.
package engine

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ldpworks/ldprepo/access"
	"github.com/ldpworks/ldprepo/config"
	"github.com/ldpworks/ldprepo/cors"
	"github.com/ldpworks/ldprepo/logger"
	"github.com/ldpworks/ldprepo/services"
)

// Builder assembles an Engine from its configuration and collaborators,
// mirroring the ambient stack's own Builder-then-Build construction.
type Builder struct {
	Config *config.Config

	Resources services.ResourceService
	Mementos  services.MementoService
	Binaries  services.BinaryService
	IO        services.IOService
	Access    services.AccessControlService
	Events    services.EventService
	Audit     services.AuditService

	Authentication access.AuthenticationBuilder
}

// Engine dispatches HTTP requests per §4's filter chain and method handlers.
type Engine struct {
	config *config.Config

	resources services.ResourceService
	mementos  services.MementoService
	binaries  services.BinaryService
	io        services.IOService
	accessCtl services.AccessControlService
	events    services.EventService
	audit     services.AuditService

	authn access.AuthenticationBuilder
	authz access.AuthorizationBuilder
}

// Build constructs the Engine. It panics if a required collaborator is nil,
// matching the ambient stack's fail-fast Builder convention: a missing
// collaborator is a deployment defect, not a request-time condition.
func (b Builder) Build() *Engine {
	if b.Config == nil {
		panic("engine: Builder.Config is required")
	}
	required := map[string]interface{}{
		"Resources": b.Resources,
		"Mementos":  b.Mementos,
		"Binaries":  b.Binaries,
		"IO":        b.IO,
		"Access":    b.Access,
		"Events":    b.Events,
		"Audit":     b.Audit,
	}
	for name, v := range required {
		if v == nil {
			panic("engine: Builder." + name + " is required")
		}
	}

	e := &Engine{
		config:    b.Config,
		resources: b.Resources,
		mementos:  b.Mementos,
		binaries:  b.Binaries,
		io:        b.IO,
		accessCtl: b.Access,
		events:    b.Events,
		audit:     b.Audit,
		authn:     b.Authentication,
		authz: access.AuthorizationBuilder{
			AccessControl:  b.Access,
			AnonymousAgent: b.Config.AnonymousAgent,
			Challenges:     b.Config.Challenges,
		},
	}
	e.authn.AnonymousAgent = b.Config.AnonymousAgent
	return e
}

// Router returns a fully wired mux.Router implementing the filter chain
// (CORS → Auth → AuthZ happens inside dispatch → method handler).
func (e *Engine) Router() *mux.Router {
	router := mux.NewRouter()
	logger.AddRequestID(router)
	router.Use(cors.Middleware(e.config.CORS))
	router.Use(e.authn.Middleware())
	router.PathPrefix("/").HandlerFunc(e.dispatch)
	return router
}

// dispatch is the single entry point for every resource path: it parses the
// request model, resolves the target resource, applies authorization, and
// hands off to the matching method handler.
func (e *Engine) dispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger.FromContext(ctx).WithField("method", r.Method).WithField("path", r.URL.Path).Debug("dispatching request")

	req, err := parseRequestModel(r, e.config.BaseURL)
	if err != nil {
		writeError(w, clientSyntax(err.Error()))
		return
	}

	agentIRI := access.AgentFromContext(ctx)
	requiredMode, known := access.RequiredMode(req.Method, req.Ext)
	if !known {
		writeError(w, methodNotAllowed(nil))
		return
	}

	iri := toInternal(req.Path)
	if denial := e.authz.Authorize(ctx, iri, agentIRI, requiredMode); denial != nil {
		if denial.Status == http.StatusUnauthorized {
			access.WriteChallenges(w, denial.Challenges)
		}
		writeError(w, &HTTPError{Status: denial.Status, Message: http.StatusText(denial.Status)})
		return
	}

	h := &handlerContext{
		engine:   e,
		ctx:      ctx,
		req:      req,
		agentIRI: agentIRI,
		iri:      iri,
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.handleGet(w, r.Method == http.MethodHead)
	case http.MethodOptions:
		h.handleOptions(w)
	case http.MethodPost:
		h.handlePost(w, r.Body)
	case http.MethodPut:
		h.handlePut(w, r.Body)
	case http.MethodPatch:
		h.handlePatch(w, r.Body)
	case http.MethodDelete:
		h.handleDelete(w)
	default:
		writeError(w, methodNotAllowed(nil))
	}
}
