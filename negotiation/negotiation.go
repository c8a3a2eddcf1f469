// Package negotiation implements §4.2 content negotiation: selecting an RDF
// serialization (and, for JSON-LD, a profile), or falling back to a stored
// binary MIME type, from a parsed Accept header.
package negotiation

import (
	"github.com/ldpworks/ldprepo/model"
)

// RDF syntaxes this engine can write, in the order they are offered when the
// client expresses no preference among them.
const (
	Turtle   = "text/turtle"
	NTriples = "application/n-triples"
	JSONLD   = "application/ld+json"
	RDFaHTML = "text/html"
)

// DefaultSyntax is served when Accept is absent or only */*, per §4.2.
const DefaultSyntax = Turtle

// rdfSyntaxes lists every RDF media type this engine supports, in
// preference order when a client's Accept entry is a wildcard.
var rdfSyntaxes = []string{Turtle, NTriples, JSONLD}

// Result is the outcome of negotiation: the media type to write, and (for
// JSON-LD) the profile IRI to honor.
type Result struct {
	MediaType string
	Profile   string
	// Binary reports whether the representation is the stored byte stream
	// of a NonRDFSource rather than an RDF description of it.
	Binary bool
}

// notAcceptableError is returned when no Accept entry can be satisfied.
type notAcceptableError struct{}

func (notAcceptableError) Error() string { return "no acceptable representation" }

// ErrNotAcceptable is returned by the Negotiate functions when the request
// must fail with 406, per §4.2.
var ErrNotAcceptable error = notAcceptableError{}

// Options bundles the negotiation knobs a caller can enable.
type Options struct {
	// AllowRDFaHTML permits text/html (RDFa) as an output syntax, per §4.2's
	// "optionally RDFA-HTML".
	AllowRDFaHTML bool
	// DefaultProfile is the JSON-LD profile IRI used when the client didn't
	// request one explicitly.
	DefaultProfile string
}

func (o Options) syntaxes() []string {
	if o.AllowRDFaHTML {
		return append(append([]string{}, rdfSyntaxes...), RDFaHTML)
	}
	return rdfSyntaxes
}

// NegotiateRDF selects an RDF output syntax (and JSON-LD profile, if
// relevant) for a request whose target is an RDFSource or Container, per
// §4.2. accept must already be sorted by descending quality (model.ParseAccept
// does this).
func NegotiateRDF(accept []model.AcceptEntry, opts Options) (Result, error) {
	if isWildcardOnly(accept) {
		return Result{MediaType: DefaultSyntax}, nil
	}
	for _, entry := range accept {
		for _, syntax := range opts.syntaxes() {
			if entry.Matches(syntax) {
				res := Result{MediaType: syntax}
				if syntax == JSONLD {
					res.Profile = chooseProfile(entry, opts.DefaultProfile)
				}
				return res, nil
			}
		}
	}
	return Result{}, ErrNotAcceptable
}

// NegotiateResource selects the representation for a target resource of the
// given interaction model, honoring §4.2's binary/description rules: a
// NonRDFSource serves its stored MIME type unless the client asked for an RDF
// syntax explicitly, in which case its description is served instead.
func NegotiateResource(accept []model.AcceptEntry, m model.InteractionModel, storedMIME string, opts Options) (Result, error) {
	if m != model.NonRDFSource {
		return NegotiateRDF(accept, opts)
	}

	if isWildcardOnly(accept) {
		return Result{MediaType: storedMIME, Binary: true}, nil
	}

	for _, entry := range accept {
		if entry.Matches(storedMIME) {
			return Result{MediaType: storedMIME, Binary: true}, nil
		}
	}

	// No direct match on the stored bytes: offer the binary's RDF
	// description instead, per §4.2's "binary description" carve-out.
	for _, entry := range accept {
		for _, syntax := range opts.syntaxes() {
			if entry.Matches(syntax) {
				res := Result{MediaType: syntax}
				if syntax == JSONLD {
					res.Profile = chooseProfile(entry, opts.DefaultProfile)
				}
				return res, nil
			}
		}
	}

	return Result{}, ErrNotAcceptable
}

func chooseProfile(entry model.AcceptEntry, defaultProfile string) string {
	if profiles := entry.Profiles(); len(profiles) > 0 {
		return profiles[0]
	}
	return defaultProfile
}

func isWildcardOnly(accept []model.AcceptEntry) bool {
	if len(accept) == 0 {
		return true
	}
	for _, e := range accept {
		if e.Type != "*/*" {
			return false
		}
	}
	return true
}
