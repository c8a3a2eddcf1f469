package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ldpworks/ldprepo/config"
	"github.com/ldpworks/ldprepo/memstore"
	"github.com/ldpworks/ldprepo/model"
)

const testACL = `[
	{"agent": "http://www.w3.org/ns/auth/acl#AuthenticatedAgent", "prefix": "trellis:data/", "modes": ["Read", "Write", "Append", "Control"]}
]`

func newTestEngine(t *testing.T) (*Engine, *memstore.ResourceStore) {
	t.Helper()
	cfg := config.Load(`{"baseURL": "http://example.org", "cacheMaxAgeSeconds": 60}`)

	resources := memstore.NewResourceStore()
	root := model.Metadata{
		InternalIRI:  toInternal(""),
		Path:         "",
		Model:        model.BasicContainer,
		LastModified: time.Now().UTC(),
		Created:      time.Now().UTC(),
	}
	require.NoError(t, resources.Create(context.Background(), root, model.NewDataset()))

	aclStore, err := memstore.NewACLStore(testACL)
	require.NoError(t, err)

	eng := Builder{
		Config:    cfg,
		Resources: resources,
		Mementos:  memstore.NewMementoStore(),
		Binaries:  memstore.NewBinaryStore(),
		IO:        memstore.NewRDFCodec(),
		Access:    aclStore,
		Events:    memstore.NewEventSink(16),
		Audit:     memstore.NewAuditor(),
	}.Build()
	return eng, resources
}

func TestPostCreatesChildAndGetReturnsIt(t *testing.T) {
	eng, _ := newTestEngine(t)
	router := eng.Router()

	body := `<http://example.org/> <http://purl.org/dc/terms/title> "Root" .` + "\n"
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/turtle")
	req.Header.Set("Slug", "child1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("POST got %d: %s", rr.Code, rr.Body.String())
	}
	location := rr.Header().Get("Location")
	if !strings.HasSuffix(location, "/child1") {
		t.Fatalf("got Location %q", location)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/child1", nil)
	getReq.Header.Set("Accept", "text/turtle")
	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, getReq)
	if getRR.Code != http.StatusOK {
		t.Fatalf("GET got %d: %s", getRR.Code, getRR.Body.String())
	}
	if !strings.Contains(getRR.Body.String(), `"Root"`) {
		t.Fatalf("got body %q", getRR.Body.String())
	}
}

func TestPutCreatesThenUpdatesWithPreconditions(t *testing.T) {
	eng, _ := newTestEngine(t)
	router := eng.Router()

	body := `<http://example.org/a> <http://purl.org/dc/terms/title> "A" .` + "\n"
	putReq := httptest.NewRequest(http.MethodPut, "/a", strings.NewReader(body))
	putReq.Header.Set("Content-Type", "text/turtle")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, putReq)
	if rr.Code != http.StatusCreated {
		t.Fatalf("first PUT got %d: %s", rr.Code, rr.Body.String())
	}

	getReq := httptest.NewRequest(http.MethodGet, "/a", nil)
	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, getReq)
	etag := getRR.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag on GET")
	}

	body2 := `<http://example.org/a> <http://purl.org/dc/terms/title> "A2" .` + "\n"
	putReq2 := httptest.NewRequest(http.MethodPut, "/a", strings.NewReader(body2))
	putReq2.Header.Set("Content-Type", "text/turtle")
	putReq2.Header.Set("If-Match", `"nonexistent-etag"`)
	rr2 := httptest.NewRecorder()
	router.ServeHTTP(rr2, putReq2)
	if rr2.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412 on stale If-Match, got %d: %s", rr2.Code, rr2.Body.String())
	}

	// A weak If-Match against the resource's own (necessarily weak, since
	// it is an RDFSource) current ETag is accepted per DESIGN.md's §9
	// resolution: weak-on-weak succeeds rather than 412.
	body3 := `<http://example.org/a> <http://purl.org/dc/terms/title> "A3" .` + "\n"
	putReq3 := httptest.NewRequest(http.MethodPut, "/a", strings.NewReader(body3))
	putReq3.Header.Set("Content-Type", "text/turtle")
	putReq3.Header.Set("If-Match", etag)
	rr3 := httptest.NewRecorder()
	router.ServeHTTP(rr3, putReq3)
	if rr3.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on weak-on-weak If-Match, got %d: %s", rr3.Code, rr3.Body.String())
	}
}

func TestDeleteLifecycle(t *testing.T) {
	eng, _ := newTestEngine(t)
	router := eng.Router()

	body := `<http://example.org/b> <http://purl.org/dc/terms/title> "B" .` + "\n"
	putReq := httptest.NewRequest(http.MethodPut, "/b", strings.NewReader(body))
	putReq.Header.Set("Content-Type", "text/turtle")
	router.ServeHTTP(httptest.NewRecorder(), putReq)

	delReq := httptest.NewRequest(http.MethodDelete, "/b", nil)
	delRR := httptest.NewRecorder()
	router.ServeHTTP(delRR, delReq)
	if delRR.Code != http.StatusNoContent {
		t.Fatalf("DELETE got %d", delRR.Code)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/b", nil)
	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, getReq)
	if getRR.Code != http.StatusGone {
		t.Fatalf("expected 410 after delete, got %d", getRR.Code)
	}

	delAgainReq := httptest.NewRequest(http.MethodDelete, "/b", nil)
	delAgainRR := httptest.NewRecorder()
	router.ServeHTTP(delAgainRR, delAgainReq)
	if delAgainRR.Code != http.StatusGone {
		t.Fatalf("expected 410 deleting already-deleted resource, got %d", delAgainRR.Code)
	}
}

func TestOptionsReturns204WithAllow(t *testing.T) {
	eng, _ := newTestEngine(t)
	router := eng.Router()

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("got %d", rr.Code)
	}
	if rr.Header().Get("Allow") == "" {
		t.Fatal("expected non-empty Allow")
	}
}

func TestTimeMapListsMementos(t *testing.T) {
	eng, _ := newTestEngine(t)
	router := eng.Router()

	body := `<http://example.org/c> <http://purl.org/dc/terms/title> "C" .` + "\n"
	putReq := httptest.NewRequest(http.MethodPut, "/c", strings.NewReader(body))
	putReq.Header.Set("Content-Type", "text/turtle")
	router.ServeHTTP(httptest.NewRecorder(), putReq)

	tmReq := httptest.NewRequest(http.MethodGet, "/c?ext=timemap", nil)
	tmRR := httptest.NewRecorder()
	router.ServeHTTP(tmRR, tmReq)
	if tmRR.Code != http.StatusOK {
		t.Fatalf("got %d: %s", tmRR.Code, tmRR.Body.String())
	}
	if !strings.Contains(tmRR.Body.String(), `rel="memento"`) {
		t.Fatalf("expected a memento link, got %q", tmRR.Body.String())
	}
}

func TestPatchAppliesSparqlUpdate(t *testing.T) {
	eng, _ := newTestEngine(t)
	router := eng.Router()

	body := `<http://example.org/d> <http://purl.org/dc/terms/title> "D" .` + "\n"
	putReq := httptest.NewRequest(http.MethodPut, "/d", strings.NewReader(body))
	putReq.Header.Set("Content-Type", "text/turtle")
	router.ServeHTTP(httptest.NewRecorder(), putReq)

	patch := `INSERT DATA { <http://example.org/d> <http://purl.org/dc/terms/subject> "new" . }`
	patchReq := httptest.NewRequest(http.MethodPatch, "/d", strings.NewReader(patch))
	patchReq.Header.Set("Content-Type", "application/sparql-update")
	patchReq.Header.Set("Prefer", `return=representation`)
	patchReq.Header.Set("Accept", "text/turtle")
	patchRR := httptest.NewRecorder()
	router.ServeHTTP(patchRR, patchReq)
	if patchRR.Code != http.StatusOK {
		t.Fatalf("got %d: %s", patchRR.Code, patchRR.Body.String())
	}
	if !strings.Contains(patchRR.Body.String(), `"new"`) {
		t.Fatalf("got body %q", patchRR.Body.String())
	}
}
