package linkheaders

import (
	"net/http"
	"testing"
	"time"

	"github.com/ldpworks/ldprepo/model"
)

func TestTypeLinksIncludesSupertypes(t *testing.T) {
	links := TypeLinks(model.BasicContainer)
	if len(links) != 4 {
		t.Fatalf("got %d links: %+v", len(links), links)
	}
	if links[0].Target != model.TypeIRI[model.BasicContainer] {
		t.Fatalf("expected narrowest type first, got %+v", links[0])
	}
}

func TestHubEmptyWhenUnconfigured(t *testing.T) {
	if links := Hub(""); links != nil {
		t.Fatalf("expected no hub link, got %+v", links)
	}
	if links := Hub("https://hub.example.org/"); len(links) != 1 || links[0].Rel != "hub" {
		t.Fatalf("got %+v", links)
	}
}

func TestMementoLinksMarksFirstAndLast(t *testing.T) {
	t0 := time.Unix(1000, 0)
	t1 := time.Unix(2000, 0)
	entries := []MementoEntry{{URL: "http://e/r?version=1000", At: t0}, {URL: "http://e/r?version=2000", At: t1}}
	links := MementoLinks(entries)
	if len(links) != 4 {
		t.Fatalf("got %d links", len(links))
	}
	var sawFirst, sawLast bool
	for _, l := range links {
		if l.Rel == "first" && l.Target == entries[0].URL {
			sawFirst = true
		}
		if l.Rel == "last" && l.Target == entries[1].URL {
			sawLast = true
		}
	}
	if !sawFirst || !sawLast {
		t.Fatalf("missing first/last markers: %+v", links)
	}
}

func TestMementoLinksEmptyWhenNoEntries(t *testing.T) {
	if links := MementoLinks(nil); links != nil {
		t.Fatalf("expected nil, got %+v", links)
	}
}

func TestWriteAllAddsOneHeaderPerLink(t *testing.T) {
	h := http.Header{}
	WriteAll(h, []model.Link{{Target: "http://a", Rel: "self"}, {Target: "http://b", Rel: "type"}})
	if len(h["Link"]) != 2 {
		t.Fatalf("got %v", h["Link"])
	}
}

func TestConstrainedByTarget(t *testing.T) {
	l := ConstrainedBy(ConstraintInvalidRange)
	if l.Rel != "http://www.w3.org/ns/ldp#constrainedBy" || l.Target != ConstraintInvalidRange {
		t.Fatalf("got %+v", l)
	}
}
