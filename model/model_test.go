package model

import "testing"

func TestSanitizeSlug(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"hello world", "hello_world", true},
		{"a//b  c", "a_b_c", true},
		{"name#fragment", "name", true},
		{"name?query=1", "name", true},
		{"   ", "", false},
		{"%2F%2F", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := SanitizeSlug(c.raw)
		if ok != c.ok || got != c.want {
			t.Errorf("SanitizeSlug(%q) = (%q,%v), want (%q,%v)", c.raw, got, ok, c.want, c.ok)
		}
	}
}

func TestParseAcceptDefaultsToWildcard(t *testing.T) {
	entries, err := ParseAccept("")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Type != "*/*" {
		t.Fatalf("expected single */* entry, got %+v", entries)
	}
}

func TestParseAcceptOrdersByQuality(t *testing.T) {
	entries, err := ParseAccept("text/turtle;q=0.5, application/ld+json;q=0.9")
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].Type != "application/ld+json" {
		t.Fatalf("expected highest-q entry first, got %+v", entries)
	}
}

func TestParseAcceptRejectsMalformed(t *testing.T) {
	if _, err := ParseAccept("not-a-media-type"); err == nil {
		t.Fatal("expected error for malformed Accept")
	}
}

func TestETagListMatching(t *testing.T) {
	list := ParseETagList(`W/"abc", "def"`)
	if !list.MatchesWeak(ETag{Value: "abc", Weak: true}, true) {
		t.Fatal("expected weak match on abc")
	}
	if list.MatchesStrong(ETag{Value: "abc", Weak: true}, true) {
		t.Fatal("weak tag must never strongly match")
	}
	if !list.MatchesStrong(ETag{Value: "def"}, true) {
		t.Fatal("expected strong match on def")
	}
}

func TestETagListWildcard(t *testing.T) {
	list := ParseETagList("*")
	if !list.Wildcard {
		t.Fatal("expected wildcard")
	}
	if list.MatchesStrong(ETag{Value: "x"}, false) {
		t.Fatal("wildcard must not match a missing resource")
	}
	if !list.MatchesStrong(ETag{Value: "x"}, true) {
		t.Fatal("wildcard must match any existing resource")
	}
}

func TestParsePreferReturn(t *testing.T) {
	p, err := ParsePrefer(`return=minimal`)
	if err != nil {
		t.Fatal(err)
	}
	if p.Return != "minimal" {
		t.Fatalf("got %+v", p)
	}
}

func TestParsePreferIncludeOmit(t *testing.T) {
	p, err := ParsePrefer(`return=representation; include="http://www.w3.org/ns/ldp#PreferContainment"`)
	if err != nil {
		t.Fatal(err)
	}
	if p.Return != "representation" || len(p.Include) != 1 {
		t.Fatalf("got %+v", p)
	}
}

func TestParsePreferInvalidReturn(t *testing.T) {
	if _, err := ParsePrefer("return=bogus"); err == nil {
		t.Fatal("expected error for invalid return value")
	}
}

func TestParseRangeSimple(t *testing.T) {
	br, ok, err := ParseRange("bytes=3-10", 18)
	if err != nil || !ok {
		t.Fatalf("err=%v ok=%v", err, ok)
	}
	if br.Start != 3 || br.End != 10 {
		t.Fatalf("got %+v", br)
	}
}

func TestParseRangeSuffix(t *testing.T) {
	br, ok, err := ParseRange("bytes=-5", 18)
	if err != nil || !ok {
		t.Fatalf("err=%v ok=%v", err, ok)
	}
	if br.Start != 13 || br.End != 17 {
		t.Fatalf("got %+v", br)
	}
}

func TestParseRangeMalformed(t *testing.T) {
	if _, _, err := ParseRange("bytes=abc", 10); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseDigest(t *testing.T) {
	d, ok, err := ParseDigest("SHA-256=47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=")
	if err != nil || !ok {
		t.Fatalf("err=%v ok=%v", err, ok)
	}
	matched, err := d.Verify([]byte(""))
	if err != nil || !matched {
		t.Fatalf("expected digest of empty string to match, matched=%v err=%v", matched, err)
	}
}

func TestParseDigestUnsupportedAlgorithm(t *testing.T) {
	if _, _, err := ParseDigest("CRC32=AAAA"); err == nil {
		t.Fatal("expected error for unsupported algorithm")
	}
}

func TestParseLinkHeaderTypeRel(t *testing.T) {
	links := ParseLinkHeader([]string{`<http://www.w3.org/ns/ldp#BasicContainer>; rel="type"`})
	l, ok := FirstByRel(links, "type")
	if !ok || l.Target != "http://www.w3.org/ns/ldp#BasicContainer" {
		t.Fatalf("got %+v ok=%v", l, ok)
	}
}

func TestSupertypesHierarchy(t *testing.T) {
	types := Supertypes(IndirectContainer)
	want := []InteractionModel{IndirectContainer, Container, RDFSource, Resource}
	if len(types) != len(want) {
		t.Fatalf("got %v", types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("got %v want %v", types, want)
		}
	}
}

func TestSkolemizerBijection(t *testing.T) {
	s := NewSkolemizer()
	iri1 := s.Skolemize("_:b1")
	iri2 := s.Skolemize("_:b1")
	if iri1 != iri2 {
		t.Fatal("expected stable mapping within a Skolemizer instance")
	}
	label, ok := s.Unskolemize(iri1)
	if !ok || label != "_:b1" {
		t.Fatalf("got %q %v", label, ok)
	}
}
