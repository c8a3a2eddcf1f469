package model

import (
	"sync"

	"github.com/google/uuid"
)

// SkolemPrefix is the IRI prefix under which blank nodes are skolemized when
// they cross the RDF/HTTP boundary (§9).
const SkolemPrefix = "tag:ldprepo,2024:bnode/"

// Skolemizer preserves a bijection between blank node labels and skolem IRIs
// for the lifetime of a single response, as §9 requires.
type Skolemizer struct {
	mu        sync.Mutex
	toIRI     map[string]string
	toBlank   map[string]string
}

// NewSkolemizer returns an empty, ready-to-use Skolemizer.
func NewSkolemizer() *Skolemizer {
	return &Skolemizer{toIRI: map[string]string{}, toBlank: map[string]string{}}
}

// Skolemize returns the skolem IRI for the given blank node label, minting
// one from SkolemPrefix plus a fresh UUID on first use.
func (s *Skolemizer) Skolemize(blankLabel string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if iri, ok := s.toIRI[blankLabel]; ok {
		return iri
	}
	iri := SkolemPrefix + uuid.NewString()
	s.toIRI[blankLabel] = iri
	s.toBlank[iri] = blankLabel
	return iri
}

// Unskolemize returns the original blank node label for a previously-minted
// skolem IRI, or ("", false) if iri is not one of ours.
func (s *Skolemizer) Unskolemize(iri string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	label, ok := s.toBlank[iri]
	return label, ok
}

// IsSkolemIRI reports whether iri was minted under SkolemPrefix.
func IsSkolemIRI(iri string) bool {
	return len(iri) > len(SkolemPrefix) && iri[:len(SkolemPrefix)] == SkolemPrefix
}
