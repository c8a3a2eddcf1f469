package engine

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/ldpworks/ldprepo/linkheaders"
	"github.com/ldpworks/ldprepo/model"
	"github.com/ldpworks/ldprepo/negotiation"
	"github.com/ldpworks/ldprepo/preconditions"
)

// handleGet implements §4.6 GET/HEAD, including the ext=timemap
// sub-resource, the Accept-Datetime TimeGate redirect, and an exact Memento
// request via ?version=.
func (h *handlerContext) handleGet(w http.ResponseWriter, headOnly bool) {
	if h.req.Ext == "timemap" {
		h.handleTimeMap(w, headOnly)
		return
	}

	res, herr := h.resolve()
	if herr != nil {
		writeError(w, herr)
		return
	}

	if h.req.AcceptDatetime != nil && h.req.Version == nil {
		h.handleTimeGate(w, *h.req.AcceptDatetime)
		return
	}

	state := preconditions.State{
		Exists:       true,
		LastModified: res.resource.Metadata.LastModified,
		ETag:         res.resource.Metadata.ComputeETag(),
	}
	outcome := preconditions.Evaluate(h.req, state)
	if !outcome.Proceed() {
		h.writeCommonHeaders(w, res.resource.Metadata.Model, res.isMemento)
		h.writeReadHeaders(w, res.resource.Metadata, res.isMemento)
		w.WriteHeader(outcome.Status)
		return
	}

	if h.req.Ext == "acl" {
		h.writeRDFResponse(w, headOnly, res, model.PreferAccessControl)
		return
	}

	if res.resource.Metadata.Model == model.NonRDFSource {
		h.handleGetBinary(w, headOnly, res)
		return
	}

	h.writeRDFResponse(w, headOnly, res, "")
}

func (h *handlerContext) handleTimeGate(w http.ResponseWriter, instant time.Time) {
	res, found, herr := h.timeGate(instant)
	if herr != nil {
		writeError(w, herr)
		return
	}
	if !found {
		writeError(w, notAcceptable("no memento at or before the requested instant"))
		return
	}
	h.writeCommonHeaders(w, res.Metadata.Model, true)
	h.writeReadHeaders(w, res.Metadata, true)
	selfURL := linkheaders.VersionQuery(h.externalURL(), res.Metadata.LastModified)
	w.Header().Add("Link", linkheaders.Self(selfURL).String())
	w.WriteHeader(http.StatusOK)
}

func (h *handlerContext) writeRDFResponse(w http.ResponseWriter, headOnly bool, res resolved, graph model.Graph) {
	result, err := negotiation.NegotiateRDF(h.req.Accept, negotiation.Options{DefaultProfile: h.engine.config.DefaultJSONLDProfile})
	if err != nil {
		writeError(w, notAcceptable("no acceptable RDF representation"))
		return
	}

	h.writeCommonHeaders(w, res.resource.Metadata.Model, res.isMemento)
	h.writeReadHeaders(w, res.resource.Metadata, res.isMemento)
	w.Header().Set("Content-Type", contentTypeWithProfile(result))

	var triples []model.Triple
	if graph != "" {
		triples = res.resource.Dataset[graph]
	} else {
		triples = res.resource.Dataset.Select(h.req.Prefer.Include, h.req.Prefer.Omit)
	}
	triples = filterByLDF(triples, h.req.Subject, h.req.Predicate, h.req.Object)

	w.WriteHeader(http.StatusOK)
	if headOnly {
		return
	}
	h.engine.io.Write(w, triples, result.MediaType, result.Profile)
}

func (h *handlerContext) handleGetBinary(w http.ResponseWriter, headOnly bool, res resolved) {
	bin, err := h.engine.binaries.Get(h.ctx, h.iri)
	if err != nil {
		writeError(w, internalError(err.Error()))
		return
	}
	result, err := negotiation.NegotiateResource(h.req.Accept, model.NonRDFSource, bin.MIMEType, negotiation.Options{DefaultProfile: h.engine.config.DefaultJSONLDProfile})
	if err != nil {
		writeError(w, notAcceptable("no acceptable representation"))
		return
	}

	if result.Binary {
		h.writeCommonHeaders(w, res.resource.Metadata.Model, res.isMemento)
		h.writeReadHeaders(w, res.resource.Metadata, res.isMemento)
		w.Header().Set("Content-Type", bin.MIMEType)
		w.Header().Set("Accept-Ranges", "bytes")

		if err := h.req.ResolveRange(bin.Size); err != nil {
			writeError(w, clientSyntax(err.Error()))
			return
		}
		if h.req.Range != nil {
			rc, err := h.engine.binaries.GetRange(h.ctx, h.iri, h.req.Range.Start, h.req.Range.End)
			if err != nil {
				writeError(w, internalError(err.Error()))
				return
			}
			defer rc.Close()
			w.WriteHeader(http.StatusOK)
			if !headOnly {
				io.Copy(w, rc)
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		if headOnly {
			return
		}
		rc, err := h.engine.binaries.GetContent(h.ctx, h.iri)
		if err != nil {
			return
		}
		defer rc.Close()
		io.Copy(w, rc)
		return
	}

	// binary-description fallback: serve the RDF metadata graph instead of
	// bytes, linking back to the binary.
	h.writeCommonHeaders(w, res.resource.Metadata.Model, res.isMemento)
	h.writeReadHeaders(w, res.resource.Metadata, res.isMemento)
	w.Header().Add("Link", linkheaders.Describes(h.externalURL(), h.externalURL()).String())
	w.Header().Add("Link", linkheaders.Canonical(h.externalURL()).String())
	w.Header().Set("Content-Type", contentTypeWithProfile(result))
	triples := res.resource.Dataset.Select(h.req.Prefer.Include, h.req.Prefer.Omit)
	w.WriteHeader(http.StatusOK)
	if headOnly {
		return
	}
	h.engine.io.Write(w, triples, result.MediaType, result.Profile)
}

// handleTimeMap serves ?ext=timemap, per the "TimeMap & Memento" section.
func (h *handlerContext) handleTimeMap(w http.ResponseWriter, headOnly bool) {
	r, err := h.engine.resources.Get(h.ctx, h.iri)
	if err != nil {
		writeError(w, internalError(err.Error()))
		return
	}
	if r.Metadata.State == model.Missing {
		writeError(w, notFound("no such resource"))
		return
	}

	instants, err := h.engine.mementos.Mementos(h.ctx, h.iri)
	if err != nil {
		writeError(w, internalError(err.Error()))
		return
	}
	sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })

	h.writeCommonHeaders(w, r.Metadata.Model, false)
	w.Header().Del("Accept-Patch")
	w.Header().Del("Accept-Post")
	w.Header().Set("Allow", joinAllow([]string{http.MethodGet, http.MethodHead, http.MethodOptions}))

	entries := make([]linkheaders.MementoEntry, 0, len(instants))
	for _, at := range instants {
		entries = append(entries, linkheaders.MementoEntry{URL: linkheaders.VersionQuery(h.externalURL(), at), At: at})
	}
	mementoLinks := linkheaders.MementoLinks(entries)
	linkheaders.WriteAll(w.Header(), mementoLinks)

	w.Header().Set("Content-Type", "application/link-format")
	w.WriteHeader(http.StatusOK)
	if headOnly {
		return
	}
	for _, l := range mementoLinks {
		fmt.Fprintf(w, "%s,\n", l.String())
	}
}

func contentTypeWithProfile(result negotiation.Result) string {
	if result.Profile == "" {
		return result.MediaType
	}
	return fmt.Sprintf(`%s; profile="%s"`, result.MediaType, result.Profile)
}

func filterByLDF(triples []model.Triple, subject, predicate, object string) []model.Triple {
	if subject == "" && predicate == "" && object == "" {
		return triples
	}
	out := make([]model.Triple, 0, len(triples))
	for _, t := range triples {
		if t.Matches(subject, predicate, object) {
			out = append(out, t)
		}
	}
	return out
}
