package engine

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/ldpworks/ldprepo/linkheaders"
	"github.com/ldpworks/ldprepo/model"
	"github.com/ldpworks/ldprepo/negotiation"
	"github.com/ldpworks/ldprepo/preconditions"
)

// handlePost implements §4.6 POST.
func (h *handlerContext) handlePost(w http.ResponseWriter, body io.Reader) {
	if h.req.Ext != "" || h.req.Version != nil {
		writeError(w, methodNotAllowed([]string{http.MethodGet, http.MethodHead, http.MethodOptions}))
		return
	}

	parent, herr := h.resolveForWrite()
	if herr != nil {
		writeError(w, herr)
		return
	}
	if parent.Metadata.State == model.Missing {
		writeError(w, notFound("no such container"))
		return
	}
	if parent.Metadata.State == model.Deleted {
		writeError(w, gone())
		return
	}
	if !model.IsContainerLike(parent.Metadata.Model) {
		writeError(w, methodNotAllowed(allowedMethods(h.req, parent.Metadata.Model)))
		return
	}

	isBinaryContentType := !isRDFSyntax(h.req.ContentType)
	childModel, herr := resolveChildModel(h.req.Links, h.req.ContentType, isBinaryContentType)
	if herr != nil {
		writeError(w, herr)
		return
	}

	slug, ok := model.SanitizeSlug(h.req.Slug)
	if !ok {
		slug = h.engine.resources.GenerateIdentifier()
	}
	childPath := model.ChildPath(h.req.Path, slug)
	childIRI := toInternal(childPath)

	existing, err := h.engine.resources.Get(h.ctx, childIRI)
	if err != nil {
		writeError(w, internalError(err.Error()))
		return
	}
	if existing.Metadata.State == model.Live {
		writeError(w, conflict("a resource already exists at the generated child path", linkheaders.ConstraintUnsupportedModel))
		return
	}

	now := time.Now().UTC()
	meta := model.Metadata{
		InternalIRI:  childIRI,
		Path:         childPath,
		Model:        childModel,
		LastModified: now,
		Created:      now,
		ParentIRI:    h.iri,
	}

	var dataset model.Dataset
	if childModel == model.NonRDFSource {
		content := body
		if h.req.Digest != nil {
			buf, err := io.ReadAll(body)
			if err != nil {
				writeError(w, internalError(err.Error()))
				return
			}
			ok, err := h.req.Digest.Verify(buf)
			if err != nil {
				writeError(w, clientSyntax(err.Error()))
				return
			}
			if !ok {
				writeError(w, clientSyntax("Digest does not match the uploaded content"))
				return
			}
			content = bytes.NewReader(buf)
		}
		size, err := h.engine.binaries.SetContent(h.ctx, childIRI, h.req.ContentType, content)
		if err != nil {
			writeError(w, internalError(err.Error()))
			return
		}
		meta.MIMEType = h.req.ContentType
		meta.Size = size
		dataset = model.NewDataset()
	} else {
		triples, err := h.engine.io.Read(body, toExternal(h.req.BaseURL, childPath), negotiation.DefaultSyntax)
		if err != nil {
			writeError(w, clientSyntax(err.Error()))
			return
		}
		if cerr := validateConstraints(triples, childModel); cerr != nil {
			writeError(w, cerr)
			return
		}
		dataset = model.NewDataset()
		for _, t := range triples {
			dataset.Add(model.PreferUserManaged, t)
		}
	}

	for _, t := range h.engine.audit.Creation(h.ctx, meta, h.agentIRI) {
		dataset.Add(model.PreferAudit, t)
	}

	if err := h.engine.resources.Create(h.ctx, meta, dataset); err != nil {
		writeError(w, internalError(err.Error()))
		return
	}
	h.engine.resources.Add(h.ctx, h.iri, model.PreferContainment, []model.Triple{containsTriple(h.iri, childIRI)})
	h.engine.resources.Touch(h.ctx, h.iri, now)
	h.engine.mementos.Put(h.ctx, childIRI, model.Resource{Metadata: meta, Dataset: dataset}, now)

	h.emitEvents("Create", childIRI, h.iri, membershipIRIFor(parent), now)

	childURL := toExternal(h.req.BaseURL, childPath)
	w.Header().Set("Location", childURL)
	links := linkheaders.TypeLinks(childModel)
	if childModel == model.NonRDFSource {
		links = append(links, linkheaders.Describedby(childURL+"?ext=acl"))
	}
	linkheaders.WriteAll(w.Header(), links)
	w.WriteHeader(http.StatusCreated)
}

// handlePut implements §4.6 PUT.
func (h *handlerContext) handlePut(w http.ResponseWriter, body io.Reader) {
	if h.req.Ext == "timemap" || h.req.Version != nil {
		writeError(w, methodNotAllowed([]string{http.MethodGet, http.MethodHead, http.MethodOptions}))
		return
	}

	current, herr := h.resolveForWrite()
	if herr != nil {
		writeError(w, herr)
		return
	}

	exists := current.Metadata.State == model.Live
	if h.req.Ext == "acl" && exists && current.Metadata.Model == model.NonRDFSource {
		writeError(w, notAcceptable("ACL representation is not available for a binary in this form"))
		return
	}

	precState := preconditions.State{
		Exists:       exists,
		LastModified: current.Metadata.LastModified,
		ETag:         current.Metadata.ComputeETag(),
	}
	outcome := preconditions.Evaluate(h.req, precState)
	if !outcome.Proceed() {
		w.WriteHeader(outcome.Status)
		return
	}

	isBinaryContentType := !isRDFSyntax(h.req.ContentType)
	declaredModel, herr := resolveChildModel(h.req.Links, h.req.ContentType, isBinaryContentType)
	if herr != nil {
		writeError(w, herr)
		return
	}
	childModel := declaredModel
	if exists {
		childModel = current.Metadata.Model
		if declaredModel != current.Metadata.Model && !compatibleReplacement(current.Metadata.Model, declaredModel) {
			writeError(w, conflict("cannot change a resource's interaction model this way", linkheaders.ConstraintInvalidCardinality))
			return
		}
	}

	now := time.Now().UTC()
	meta := current.Metadata
	meta.InternalIRI = h.iri
	meta.Path = h.req.Path
	meta.LastModified = now
	if !exists {
		meta.Created = now
		meta.Model = childModel
		if parent, ok := parentPath(h.req.Path); ok {
			meta.ParentIRI = toInternal(parent)
		}
	}

	dataset := current.Dataset
	if dataset == nil {
		dataset = model.NewDataset()
	}

	if h.req.Ext == "acl" {
		triples, err := h.engine.io.Read(body, h.externalURL(), negotiation.DefaultSyntax)
		if err != nil {
			writeError(w, clientSyntax(err.Error()))
			return
		}
		dataset[model.PreferAccessControl] = triples
	} else if meta.Model == model.NonRDFSource {
		size, err := h.engine.binaries.SetContent(h.ctx, h.iri, h.req.ContentType, body)
		if err != nil {
			writeError(w, internalError(err.Error()))
			return
		}
		meta.MIMEType = h.req.ContentType
		meta.Size = size
	} else {
		triples, err := h.engine.io.Read(body, h.externalURL(), negotiation.DefaultSyntax)
		if err != nil {
			writeError(w, clientSyntax(err.Error()))
			return
		}
		triples = dropContainmentAssertions(triples)
		if cerr := validateConstraints(triples, meta.Model); cerr != nil {
			writeError(w, cerr)
			return
		}
		dataset[model.PreferUserManaged] = triples
	}

	if exists {
		dataset[model.PreferAudit] = h.engine.audit.Update(h.ctx, meta, h.agentIRI)
	} else {
		dataset[model.PreferAudit] = h.engine.audit.Creation(h.ctx, meta, h.agentIRI)
	}

	var err error
	if exists {
		err = h.engine.resources.Replace(h.ctx, meta, dataset)
	} else {
		err = h.engine.resources.Create(h.ctx, meta, dataset)
	}
	if err != nil {
		writeError(w, internalError(err.Error()))
		return
	}
	h.engine.mementos.Put(h.ctx, h.iri, model.Resource{Metadata: meta, Dataset: dataset}, now)

	parentIRI := meta.ParentIRI
	if !exists && parentIRI != "" && !h.engine.config.PutCreatesUncontained {
		h.engine.resources.Add(h.ctx, parentIRI, model.PreferContainment, []model.Triple{containsTriple(parentIRI, h.iri)})
		h.engine.resources.Touch(h.ctx, parentIRI, now)
	} else if !exists {
		parentIRI = ""
	}
	eventType := "Update"
	if !exists {
		eventType = "Create"
	}
	h.emitEvents(eventType, h.iri, parentIRI, "", now)

	if !exists {
		w.Header().Set("Content-Location", h.externalURL())
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePatch implements §4.6 PATCH.
func (h *handlerContext) handlePatch(w http.ResponseWriter, body io.Reader) {
	if h.req.Ext == "timemap" || h.req.Version != nil {
		writeError(w, methodNotAllowed([]string{http.MethodGet, http.MethodHead, http.MethodOptions}))
		return
	}
	if h.req.ContentType != "application/sparql-update" {
		writeError(w, unsupportedMediaType("PATCH accepts only application/sparql-update"))
		return
	}

	current, herr := h.resolveForWrite()
	if herr != nil {
		writeError(w, herr)
		return
	}
	if current.Metadata.State == model.Deleted {
		writeError(w, gone())
		return
	}
	if current.Metadata.State == model.Missing && !h.engine.config.PatchCreatesMissing {
		writeError(w, notFound("no such resource"))
		return
	}

	sparqlBytes, err := io.ReadAll(body)
	if err != nil {
		writeError(w, internalError(err.Error()))
		return
	}

	graph := model.PreferUserManaged
	if h.req.Ext == "acl" {
		graph = model.PreferAccessControl
	}

	dataset := current.Dataset
	if dataset == nil {
		dataset = model.NewDataset()
	}
	updated, err := h.engine.io.Update(dataset[graph], string(sparqlBytes), h.externalURL())
	if err != nil {
		writeError(w, clientSyntax(err.Error()))
		return
	}
	if cerr := validateConstraints(updated, current.Metadata.Model); cerr != nil {
		writeError(w, cerr)
		return
	}
	dataset[graph] = updated

	now := time.Now().UTC()
	meta := current.Metadata
	meta.InternalIRI = h.iri
	meta.Path = h.req.Path
	meta.LastModified = now
	created := current.Metadata.State != model.Live
	if created {
		meta.Created = now
		if meta.Model == "" {
			meta.Model = model.RDFSource
		}
		if parent, ok := parentPath(h.req.Path); ok {
			meta.ParentIRI = toInternal(parent)
		}
	}

	if created {
		dataset[model.PreferAudit] = h.engine.audit.Creation(h.ctx, meta, h.agentIRI)
	} else {
		dataset[model.PreferAudit] = h.engine.audit.Update(h.ctx, meta, h.agentIRI)
	}

	if created {
		err = h.engine.resources.Create(h.ctx, meta, dataset)
	} else {
		err = h.engine.resources.Replace(h.ctx, meta, dataset)
	}
	if err != nil {
		writeError(w, internalError(err.Error()))
		return
	}
	h.engine.mementos.Put(h.ctx, h.iri, model.Resource{Metadata: meta, Dataset: dataset}, now)

	eventType := "Update"
	if created {
		eventType = "Create"
		if meta.ParentIRI != "" {
			h.engine.resources.Add(h.ctx, meta.ParentIRI, model.PreferContainment, []model.Triple{containsTriple(meta.ParentIRI, h.iri)})
			h.engine.resources.Touch(h.ctx, meta.ParentIRI, now)
		}
	}
	h.emitEvents(eventType, h.iri, meta.ParentIRI, "", now)

	if h.req.Prefer.Return == "representation" {
		result, err := negotiation.NegotiateRDF(h.req.Accept, negotiation.Options{DefaultProfile: h.engine.config.DefaultJSONLDProfile})
		if err != nil {
			writeError(w, notAcceptable("no acceptable RDF representation"))
			return
		}
		w.Header().Set("Content-Type", contentTypeWithProfile(result))
		w.Header().Set("Preference-Applied", "return=representation")
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		w.WriteHeader(status)
		h.engine.io.Write(w, dataset.Select(h.req.Prefer.Include, h.req.Prefer.Omit), result.MediaType, result.Profile)
		return
	}

	w.Header().Set("Preference-Applied", "return=minimal")
	if created {
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDelete implements §4.6 DELETE.
func (h *handlerContext) handleDelete(w http.ResponseWriter) {
	if h.req.Ext == "timemap" || h.req.Version != nil {
		writeError(w, methodNotAllowed([]string{http.MethodGet, http.MethodHead, http.MethodOptions}))
		return
	}

	current, herr := h.resolveForWrite()
	if herr != nil {
		writeError(w, herr)
		return
	}
	switch current.Metadata.State {
	case model.Missing:
		writeError(w, notFound("no such resource"))
		return
	case model.Deleted:
		writeError(w, gone())
		return
	}

	now := time.Now().UTC()
	if err := h.engine.resources.Delete(h.ctx, h.iri, now); err != nil {
		writeError(w, internalError(err.Error()))
		return
	}
	if current.Metadata.Model == model.NonRDFSource && h.engine.config.PurgeBinaryOnDelete {
		h.engine.binaries.PurgeContent(h.ctx, h.iri)
	}
	tombstone := current
	tombstone.Metadata.State = model.Deleted
	tombstone.Metadata.LastModified = now
	if tombstone.Dataset == nil {
		tombstone.Dataset = model.NewDataset()
	}
	tombstone.Dataset[model.PreferAudit] = h.engine.audit.Deletion(h.ctx, tombstone.Metadata, h.agentIRI)
	h.engine.mementos.Put(h.ctx, h.iri, tombstone, now)

	h.emitEvents("Delete", h.iri, current.Metadata.ParentIRI, "", now)
	w.WriteHeader(http.StatusNoContent)
}

func isRDFSyntax(contentType string) bool {
	switch contentType {
	case negotiation.Turtle, negotiation.NTriples, negotiation.JSONLD, "":
		return true
	default:
		return false
	}
}

func compatibleReplacement(existing, next model.InteractionModel) bool {
	if existing == model.NonRDFSource || next == model.NonRDFSource {
		return existing == next
	}
	return true
}

func dropContainmentAssertions(triples []model.Triple) []model.Triple {
	out := make([]model.Triple, 0, len(triples))
	for _, t := range triples {
		if t.Predicate.IsIRI() && t.Predicate.IRI == "http://www.w3.org/ns/ldp#contains" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func containsTriple(parentIRI, childIRI string) model.Triple {
	return model.Triple{
		Subject:   model.IRITerm(parentIRI),
		Predicate: model.IRITerm("http://www.w3.org/ns/ldp#contains"),
		Object:    model.IRITerm(childIRI),
	}
}

func membershipIRIFor(parent model.Resource) string {
	if parent.Metadata.Model == model.DirectContainer || parent.Metadata.Model == model.IndirectContainer {
		return parent.Metadata.MembershipIRI
	}
	return ""
}
