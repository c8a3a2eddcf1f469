package memstore

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ldpworks/ldprepo/model"
	"github.com/ldpworks/ldprepo/services"
)

func TestResourceStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewResourceStore()

	r, err := store.Get(ctx, "trellis:data/missing")
	if err != nil || r.Metadata.State != model.Missing {
		t.Fatalf("expected Missing, got %+v err=%v", r, err)
	}

	meta := model.Metadata{InternalIRI: "trellis:data/a", Path: "a", Model: model.RDFSource, LastModified: time.Now()}
	if err := store.Create(ctx, meta, model.NewDataset()); err != nil {
		t.Fatal(err)
	}
	r, err = store.Get(ctx, "trellis:data/a")
	if err != nil || r.Metadata.State != model.Live {
		t.Fatalf("got %+v err=%v", r, err)
	}

	if err := store.Delete(ctx, "trellis:data/a", time.Now()); err != nil {
		t.Fatal(err)
	}
	r, err = store.Get(ctx, "trellis:data/a")
	if err != nil || r.Metadata.State != model.Deleted {
		t.Fatalf("expected Deleted, got %+v err=%v", r, err)
	}
}

func TestMementoStoreNearestNotAfter(t *testing.T) {
	ctx := context.Background()
	store := NewMementoStore()
	t0 := time.Unix(1000, 0)
	t1 := time.Unix(2000, 0)
	t2 := time.Unix(3000, 0)

	store.Put(ctx, "r", model.Resource{Metadata: model.Metadata{Path: "t0"}}, t0)
	store.Put(ctx, "r", model.Resource{Metadata: model.Metadata{Path: "t1"}}, t1)
	store.Put(ctx, "r", model.Resource{Metadata: model.Metadata{Path: "t2"}}, t2)

	got, err := store.Get(ctx, "r", time.Unix(2500, 0))
	if err != nil || got.Metadata.Path != "t1" {
		t.Fatalf("got %+v err=%v", got, err)
	}

	got, err = store.Get(ctx, "r", time.Unix(500, 0))
	if err != nil || got.Metadata.State != model.Missing {
		t.Fatalf("expected Missing before first memento, got %+v", got)
	}

	instants, err := store.Mementos(ctx, "r")
	if err != nil || len(instants) != 3 {
		t.Fatalf("got %v err=%v", instants, err)
	}
}

func TestBinaryStoreRangeRead(t *testing.T) {
	ctx := context.Background()
	store := NewBinaryStore()
	_, err := store.SetContent(ctx, "b1", "text/plain", strings.NewReader("Some input stream"))
	if err != nil {
		t.Fatal(err)
	}
	rc, err := store.GetRange(ctx, "b1", 3, 10)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	var buf bytes.Buffer
	buf.ReadFrom(rc)
	if buf.String() != "e input" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestRDFCodecTurtleRoundTrip(t *testing.T) {
	codec := NewRDFCodec()
	in := `<http://example.org/r> <http://purl.org/dc/terms/title> "T" .` + "\n"
	triples, err := codec.Read(strings.NewReader(in), "http://example.org/r", SyntaxTurtle)
	if err != nil {
		t.Fatal(err)
	}
	if len(triples) != 1 || triples[0].Object.Literal != "T" {
		t.Fatalf("got %+v", triples)
	}
	var out bytes.Buffer
	if err := codec.Write(&out, triples, SyntaxTurtle, ""); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"T"`) {
		t.Fatalf("got %q", out.String())
	}
}

func TestRDFCodecSPARQLUpdateInsertDelete(t *testing.T) {
	codec := NewRDFCodec()
	graph := []model.Triple{
		{Subject: model.IRITerm("http://example.org/r"), Predicate: model.IRITerm("http://example.org/p"), Object: model.LiteralTerm("old", "", "")},
	}
	sparql := `DELETE DATA { <http://example.org/r> <http://example.org/p> "old" . } ;
	INSERT DATA { <http://example.org/r> <http://example.org/p> "new" . }`
	out, err := codec.Update(graph, sparql, "http://example.org/r")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Object.Literal != "new" {
		t.Fatalf("got %+v", out)
	}
}

func TestRDFCodecSPARQLUpdateRejectsUnsupportedOp(t *testing.T) {
	codec := NewRDFCodec()
	_, err := codec.Update(nil, `DROP GRAPH <http://example.org/g>`, "http://example.org/r")
	if err == nil {
		t.Fatal("expected error for unsupported operation")
	}
}

func TestACLStoreLongestPrefixWins(t *testing.T) {
	raw := `[
		{"agent": "http://example.org/alice", "prefix": "trellis:data/", "modes": ["Read"]},
		{"agent": "http://example.org/alice", "prefix": "trellis:data/private", "modes": ["Read", "Write"]}
	]`
	store, err := NewACLStore(raw)
	if err != nil {
		t.Fatal(err)
	}
	modes, err := store.GetAccessModes(context.Background(), "trellis:data/private/doc", "http://example.org/alice")
	if err != nil {
		t.Fatal(err)
	}
	if !modes.Has(services.ModeWrite) {
		t.Fatalf("expected Write from the longer-prefix entry, got %v", modes)
	}
}

func TestEventSinkDrain(t *testing.T) {
	sink := NewEventSink(4)
	sink.Emit(context.Background(), services.Event{Type: "Create", Resource: "r1"})
	sink.Emit(context.Background(), services.Event{Type: "Update", Resource: "r1"})
	events := sink.Drain()
	if len(events) != 2 {
		t.Fatalf("got %d events", len(events))
	}
}
