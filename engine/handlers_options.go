package engine

import (
	"net/http"

	"github.com/ldpworks/ldprepo/model"
)

// handleOptions implements §4.6 OPTIONS: 204 with the full Allow,
// Accept-Patch and Accept-Post surfaces, and no Memento-Datetime.
func (h *handlerContext) handleOptions(w http.ResponseWriter) {
	m := model.RDFSource
	if h.req.Ext != "timemap" && h.req.Version == nil {
		r, err := h.engine.resources.Get(h.ctx, h.iri)
		if err != nil {
			writeError(w, internalError(err.Error()))
			return
		}
		if r.Metadata.State == model.Live {
			m = r.Metadata.Model
		}
	}
	h.writeCommonHeaders(w, m, false)
	w.WriteHeader(http.StatusNoContent)
}
