package engine

import (
	"github.com/ldpworks/ldprepo/linkheaders"
	"github.com/ldpworks/ldprepo/model"
)

const (
	rdfType             = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	ldpMembershipResource = "http://www.w3.org/ns/ldp#membershipResource"
)

// validateConstraints applies the small set of LDP constraints §4.6 requires
// the engine itself to enforce (the rest belongs to the I/O Service's own
// parse-time validation): rdf:type must take an IRI object, and a
// Direct/IndirectContainer's membership resource must be asserted at most
// once.
func validateConstraints(triples []model.Triple, childModel model.InteractionModel) *HTTPError {
	membershipCount := 0
	for _, t := range triples {
		if t.Predicate.IsIRI() && t.Predicate.IRI == rdfType && !t.Object.IsIRI() {
			return conflict("rdf:type requires an IRI object", linkheaders.ConstraintInvalidRange)
		}
		if t.Predicate.IsIRI() && t.Predicate.IRI == ldpMembershipResource {
			membershipCount++
		}
	}
	isDirectOrIndirect := childModel == model.DirectContainer || childModel == model.IndirectContainer
	if isDirectOrIndirect && membershipCount > 1 {
		return conflict("a Direct/IndirectContainer may assert ldp:membershipResource at most once", linkheaders.ConstraintInvalidCardinality)
	}
	return nil
}

// resolveChildModel determines a new resource's interaction model from the
// Link rel="type" header (if any) then the request's content type, per §4.6
// POST step 3 / PUT step 3.
func resolveChildModel(links []model.Link, contentType string, binary bool) (model.InteractionModel, *HTTPError) {
	if link, ok := model.FirstByRel(links, "type"); ok {
		m, known := interactionModelForTypeIRI(link.Target)
		if !known {
			return model.RDFSource, nil
		}
		return m, nil
	}
	if binary {
		return model.NonRDFSource, nil
	}
	return model.RDFSource, nil
}

func interactionModelForTypeIRI(iri string) (model.InteractionModel, bool) {
	for m, typeIRI := range model.TypeIRI {
		if typeIRI == iri {
			return m, true
		}
	}
	return "", false
}
