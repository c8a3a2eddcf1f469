package engine

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ldpworks/ldprepo/linkheaders"
	"github.com/ldpworks/ldprepo/model"
)

// writeCommonHeaders assembles the §4.7 Response Assembly fields shared by
// GET/HEAD/OPTIONS: Link (type hierarchy, hub, self, timegate/original for
// versionable resources), Allow, Accept-Patch/Accept-Post, Vary.
func (h *handlerContext) writeCommonHeaders(w http.ResponseWriter, m model.InteractionModel, isMemento bool) {
	hdrs := w.Header()

	links := linkheaders.TypeLinks(m)
	links = append(links, linkheaders.Hub(h.engine.config.WebSubHub)...)

	self := h.externalURL()
	if h.req.Version != nil {
		self = linkheaders.VersionQuery(h.externalURL(), time.Unix(*h.req.Version, 0).UTC())
	}
	links = append(links, linkheaders.Self(self))

	if h.req.Ext != "acl" {
		timeMapURL := h.externalURL() + "?ext=timemap"
		set := linkheaders.MementoLinkSet{
			TimeGateURL: h.externalURL(),
			OriginalURL: h.externalURL(),
			TimeMapURL:  timeMapURL,
		}
		links = append(links, set.Links()...)
	}

	linkheaders.WriteAll(hdrs, links)

	allow := allowedMethods(h.req, m)
	hdrs.Set("Allow", joinAllow(allow))

	if h.req.Ext != "timemap" && h.req.Version == nil {
		hdrs.Set("Accept-Patch", "application/sparql-update")
		if model.IsContainerLike(m) {
			hdrs.Set("Accept-Post", "text/turtle, application/n-triples, application/ld+json, */*")
		}
	}

	vary := "Accept-Datetime, Prefer"
	hdrs.Set("Vary", vary)
}

// writeReadHeaders adds the fields specific to a successful GET/HEAD: ETag,
// Last-Modified, Cache-Control, Preference-Applied, and (for an exact
// Memento) Memento-Datetime.
func (h *handlerContext) writeReadHeaders(w http.ResponseWriter, meta model.Metadata, isMemento bool) {
	hdrs := w.Header()
	hdrs.Set("ETag", meta.ComputeETag().String())
	hdrs.Set("Last-Modified", meta.LastModified.UTC().Format(http.TimeFormat))
	hdrs.Set("Cache-Control", fmt.Sprintf("max-age=%d", h.engine.config.CacheMaxAgeSeconds))
	if applied := h.req.Prefer.Applied(); applied != "" {
		hdrs.Set("Preference-Applied", applied)
	}
	if isMemento {
		hdrs.Set("Memento-Datetime", meta.LastModified.UTC().Format(time.RFC1123))
	}
}

func joinAllow(methods []string) string {
	out := ""
	for i, m := range methods {
		if i > 0 {
			out += ", "
		}
		out += m
	}
	return out
}
