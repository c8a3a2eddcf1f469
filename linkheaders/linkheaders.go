// Package linkheaders assembles the Link header entries described by §4.7
// Response Assembly: the LDP interaction-model type hierarchy, WebSub hub,
// self/canonical/describes/describedby, Memento timegate/original/timemap/
// memento/first/last, and constrainedBy on constraint violations.
package linkheaders

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ldpworks/ldprepo/model"
)

// Constraint vocabulary IRIs for rel="constrainedBy", per §7's error
// taxonomy.
const (
	ConstrainedByBase           = "urn:ldprepo:constraint#"
	ConstraintInvalidRange      = ConstrainedByBase + "InvalidRange"
	ConstraintInvalidCardinality = ConstrainedByBase + "InvalidCardinality"
	ConstraintUnsupportedModel  = ConstrainedByBase + "UnsupportedInteractionModel"
)

// TypeLinks returns one rel="type" Link per LDP interaction model m carries,
// narrowest first, per the LDP type hierarchy.
func TypeLinks(m model.InteractionModel) []model.Link {
	types := model.Supertypes(m)
	links := make([]model.Link, 0, len(types))
	for _, t := range types {
		if iri, ok := model.TypeIRI[t]; ok {
			links = append(links, model.Link{Target: iri, Rel: "type"})
		}
	}
	return links
}

// Hub returns the WebSub rel="hub" link, or nil when no hub is configured.
func Hub(hubURL string) []model.Link {
	if hubURL == "" {
		return nil
	}
	return []model.Link{{Target: hubURL, Rel: "hub"}}
}

// Self returns the canonical external URL for the current representation.
// For a Memento, externalURL already carries its ?version= query.
func Self(externalURL string) model.Link {
	return model.Link{Target: externalURL, Rel: "self"}
}

// Describes links a NonRDFSource's binary representation to its description
// resource, and Describedby is its inverse, per §4.3's binary-description
// negotiation.
func Describes(binaryURL, descriptionURL string) model.Link {
	return model.Link{Target: binaryURL, Rel: "describes"}
}

func Describedby(descriptionURL string) model.Link {
	return model.Link{Target: descriptionURL, Rel: "describedby"}
}

// Canonical links a served representation back to the resource's canonical
// external URL, used when serving a binary's description under content
// negotiation.
func Canonical(canonicalURL string) model.Link {
	return model.Link{Target: canonicalURL, Rel: "canonical"}
}

// MementoLinkSet assembles the Memento-related Link headers shared by a
// versionable resource's plain GET, its TimeGate redirect, an individual
// Memento, and its TimeMap: timegate, original and timemap. The memento,
// first and last entries come from MementoLinks.
type MementoLinkSet struct {
	TimeGateURL string
	OriginalURL string
	TimeMapURL  string
}

// Links returns the fixed timegate/original/timemap trio.
func (s MementoLinkSet) Links() []model.Link {
	return []model.Link{
		{Target: s.TimeGateURL, Rel: "timegate"},
		{Target: s.OriginalURL, Rel: "original"},
		{Target: s.TimeMapURL, Rel: "timemap"},
	}
}

// MementoEntry describes one Memento for TimeMap assembly.
type MementoEntry struct {
	URL string
	At  time.Time
}

// MementoLinks returns one rel="memento" link per entry, each carrying an
// RFC 1123 datetime param, plus rel="first" and rel="last" markers for the
// oldest and newest entries when entries is non-empty. entries must already
// be sorted ascending by At.
func MementoLinks(entries []MementoEntry) []model.Link {
	if len(entries) == 0 {
		return nil
	}
	links := make([]model.Link, 0, len(entries)+2)
	for _, e := range entries {
		links = append(links, model.Link{
			Target: e.URL,
			Rel:    "memento",
			Params: map[string]string{"datetime": e.At.UTC().Format(http.TimeFormat)},
		})
	}
	links = append(links, model.Link{Target: entries[0].URL, Rel: "first"})
	links = append(links, model.Link{Target: entries[len(entries)-1].URL, Rel: "last"})
	return links
}

// ConstrainedBy returns the rel="constrainedBy" Link pointing at a
// constraint vocabulary IRI, written on 409 Conflict responses.
func ConstrainedBy(constraintIRI string) model.Link {
	return model.Link{Target: constraintIRI, Rel: "http://www.w3.org/ns/ldp#constrainedBy"}
}

// WriteAll writes one Link header per entry in the order given, joined per
// RFC 8288 as a single header per entry (matching the style of repeated
// Set-Cookie-like headers rather than one comma-joined value, so a malformed
// entry never corrupts its neighbors).
func WriteAll(h http.Header, links []model.Link) {
	for _, l := range links {
		h.Add("Link", l.String())
	}
}

// VersionQuery renders the ?version=<epoch-seconds> query string appended to
// a resource's external URL to address a specific Memento.
func VersionQuery(baseURL string, at time.Time) string {
	return fmt.Sprintf("%s?version=%d", baseURL, at.Unix())
}
