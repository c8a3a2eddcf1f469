package model

// InteractionModel is one of the LDP interaction models a resource can carry.
type InteractionModel string

// The LDP interaction model vocabulary.
const (
	Resource          InteractionModel = "Resource"
	RDFSource         InteractionModel = "RDFSource"
	NonRDFSource      InteractionModel = "NonRDFSource"
	Container         InteractionModel = "Container"
	BasicContainer    InteractionModel = "BasicContainer"
	DirectContainer   InteractionModel = "DirectContainer"
	IndirectContainer InteractionModel = "IndirectContainer"
)

// TypeIRI is the LDP vocabulary IRI for an interaction model, as emitted in
// Link rel="type" headers.
var TypeIRI = map[InteractionModel]string{
	Resource:          "http://www.w3.org/ns/ldp#Resource",
	RDFSource:         "http://www.w3.org/ns/ldp#RDFSource",
	NonRDFSource:      "http://www.w3.org/ns/ldp#NonRDFSource",
	Container:         "http://www.w3.org/ns/ldp#Container",
	BasicContainer:    "http://www.w3.org/ns/ldp#BasicContainer",
	DirectContainer:   "http://www.w3.org/ns/ldp#DirectContainer",
	IndirectContainer: "http://www.w3.org/ns/ldp#IndirectContainer",
}

// supertypes maps every interaction model to itself plus every supertype in
// the LDP hierarchy. Every Container subtype reports Container, RDFSource and
// Resource in addition to itself.
var supertypes = map[InteractionModel][]InteractionModel{
	Resource:          {Resource},
	RDFSource:         {RDFSource, Resource},
	NonRDFSource:      {NonRDFSource, Resource},
	Container:         {Container, RDFSource, Resource},
	BasicContainer:    {BasicContainer, Container, RDFSource, Resource},
	DirectContainer:   {DirectContainer, Container, RDFSource, Resource},
	IndirectContainer: {IndirectContainer, Container, RDFSource, Resource},
}

// Supertypes returns m and every LDP supertype of m, narrowest first.
func Supertypes(m InteractionModel) []InteractionModel {
	types, ok := supertypes[m]
	if !ok {
		return []InteractionModel{m}
	}
	out := make([]InteractionModel, len(types))
	copy(out, types)
	return out
}

// IsContainerLike reports whether m allows POST (any Container subtype).
func IsContainerLike(m InteractionModel) bool {
	switch m {
	case Container, BasicContainer, DirectContainer, IndirectContainer:
		return true
	default:
		return false
	}
}

// AllowedMethods returns the HTTP methods §6 allows for m, excluding the
// extension/version overrides handled separately by the authorization filter
// and path normalizer.
func AllowedMethods(m InteractionModel) []string {
	base := []string{"GET", "HEAD", "OPTIONS", "PUT", "PATCH", "DELETE"}
	if IsContainerLike(m) {
		base = append(base, "POST")
	}
	return base
}
