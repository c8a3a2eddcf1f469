package preconditions

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ldpworks/ldprepo/model"
)

func parseReq(t *testing.T, method string, headers map[string]string) *model.Request {
	t.Helper()
	r := httptest.NewRequest(method, "/res", nil)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	req, err := model.Parse(r, "http://example.org")
	if err != nil {
		t.Fatal(err)
	}
	return req
}

func TestEvaluateIfMatchFails412(t *testing.T) {
	req := parseReq(t, http.MethodPut, map[string]string{"If-Match": `"other"`})
	out := Evaluate(req, State{Exists: true, ETag: model.ETag{Value: "current"}})
	if out.Status != http.StatusPreconditionFailed {
		t.Fatalf("got %d", out.Status)
	}
}

func TestEvaluateIfMatchWildcardRequiresExistence(t *testing.T) {
	req := parseReq(t, http.MethodPut, map[string]string{"If-Match": "*"})
	out := Evaluate(req, State{Exists: false})
	if out.Status != http.StatusPreconditionFailed {
		t.Fatalf("got %d", out.Status)
	}
}

func TestEvaluateIfNoneMatchSafeIs304(t *testing.T) {
	req := parseReq(t, http.MethodGet, map[string]string{"If-None-Match": `"current"`})
	out := Evaluate(req, State{Exists: true, ETag: model.ETag{Value: "current"}})
	if out.Status != http.StatusNotModified {
		t.Fatalf("got %d", out.Status)
	}
}

func TestEvaluateIfNoneMatchUnsafeIs412(t *testing.T) {
	req := parseReq(t, http.MethodPut, map[string]string{"If-None-Match": `"current"`})
	out := Evaluate(req, State{Exists: true, ETag: model.ETag{Value: "current"}})
	if out.Status != http.StatusPreconditionFailed {
		t.Fatalf("got %d", out.Status)
	}
}

func TestEvaluateIfModifiedSinceNotModified(t *testing.T) {
	lm := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	req := parseReq(t, http.MethodGet, map[string]string{"If-Modified-Since": lm.Format(http.TimeFormat)})
	out := Evaluate(req, State{Exists: true, LastModified: lm})
	if out.Status != http.StatusNotModified {
		t.Fatalf("got %d", out.Status)
	}
}

func TestEvaluateWeakETagNeverSatisfiesIfMatch(t *testing.T) {
	req := parseReq(t, http.MethodPut, map[string]string{"If-Match": `W/"current"`})
	out := Evaluate(req, State{Exists: true, ETag: model.ETag{Value: "current"}})
	if out.Status != http.StatusPreconditionFailed {
		t.Fatalf("expected weak tag to fail If-Match, got %d", out.Status)
	}
}

func TestEvaluateWeakOnWeakIfMatchSatisfiesRDFSource(t *testing.T) {
	req := parseReq(t, http.MethodPut, map[string]string{"If-Match": `W/"current"`})
	out := Evaluate(req, State{Exists: true, ETag: model.ETag{Value: "current", Weak: true}})
	if !out.Proceed() {
		t.Fatalf("expected weak-on-weak If-Match to proceed for an RDFSource, got %d", out.Status)
	}
}

func TestEvaluatePassesWithNoPreconditions(t *testing.T) {
	req := parseReq(t, http.MethodGet, nil)
	out := Evaluate(req, State{Exists: true})
	if !out.Proceed() {
		t.Fatalf("expected proceed, got status %d", out.Status)
	}
}
