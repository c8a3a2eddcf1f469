package model

import (
	"net/http"
	"net/textproto"
	"time"

	hdr "github.com/mallardduck/go-http-helpers/pkg/headers"
)

// Request is the parsed view of an incoming request described by §4.1: the
// fields every filter and handler consults instead of re-reading raw headers.
type Request struct {
	Method      string
	Path        string // normalized, no leading/trailing slash
	HadTrailing bool
	BaseURL     string

	ContentType   string
	ContentLength int64

	Ext     string // "" | "acl" | "timemap"
	Version *int64 // epoch seconds, nil if absent

	Slug           string
	Links          []Link
	Prefer         Prefer
	Digest         *Digest
	AcceptDatetime *time.Time
	Range          *ByteRange // resolved once the representation size is known; parsed lazily by handlers
	RawRange       string

	IfMatch           ETagList
	IfNoneMatch       ETagList
	IfModifiedSince   *time.Time
	IfUnmodifiedSince *time.Time

	Accept []AcceptEntry

	Subject   string
	Predicate string
	Object    string
}

// Parse builds a Request from r. It does not resolve Range against a
// representation size (callers do that once they know it); it does parse and
// validate every other §4.1 field, returning an error for anything the
// section marks as a 400.
func Parse(r *http.Request, baseURL string) (*Request, error) {
	path, hadTrailing := NormalizePath(r.URL.Path)

	req := &Request{
		Method:        r.Method,
		Path:          path,
		HadTrailing:   hadTrailing,
		BaseURL:       baseURL,
		ContentType:   stripParams(r.Header.Get(hdr.ContentType)),
		ContentLength: r.ContentLength,
		RawRange:      r.Header.Get(hdr.Range),
	}

	q := r.URL.Query()
	req.Ext = q.Get("ext")
	if v := q.Get("version"); v != "" {
		ts, err := parseEpochSeconds(v)
		if err != nil {
			return nil, errMalformed("version")
		}
		req.Version = &ts
	}
	req.Subject = q.Get("subject")
	req.Predicate = q.Get("predicate")
	req.Object = q.Get("object")

	req.Slug = r.Header.Get("Slug")
	req.Links = ParseLinkHeader(r.Header.Values(hdr.Link))

	prefer, err := ParsePrefer(r.Header.Get(hdr.Prefer))
	if err != nil {
		return nil, err
	}
	req.Prefer = prefer

	if raw := r.Header.Get("Digest"); raw != "" {
		d, ok, err := ParseDigest(raw)
		if err != nil {
			return nil, err
		}
		if ok {
			req.Digest = &d
		}
	}

	if raw := r.Header.Get("Accept-Datetime"); raw != "" {
		t, err := time.Parse(time.RFC1123, raw)
		if err != nil {
			return nil, errMalformed("Accept-Datetime")
		}
		t = t.UTC()
		req.AcceptDatetime = &t
	}

	req.IfMatch = ParseETagList(r.Header.Get(hdr.IfMatch))
	req.IfNoneMatch = ParseETagList(r.Header.Get(hdr.IfNoneMatch))

	if raw := r.Header.Get(hdr.IfModifiedSince); raw != "" {
		if t, err := http.ParseTime(raw); err == nil {
			t = t.UTC()
			req.IfModifiedSince = &t
		}
		// an invalid date is ignored per §4.3, not a 400
	}
	if raw := r.Header.Get(hdr.IfUnmodifiedSince); raw != "" {
		t, err := http.ParseTime(raw)
		if err != nil {
			return nil, errMalformed("If-Unmodified-Since")
		}
		t = t.UTC()
		req.IfUnmodifiedSince = &t
	}

	accept, err := ParseAccept(r.Header.Get(hdr.Accept))
	if err != nil {
		return nil, err
	}
	req.Accept = accept

	return req, nil
}

// ResolveRange parses RawRange now that the representation size is known.
func (r *Request) ResolveRange(size int64) error {
	if r.RawRange == "" {
		return nil
	}
	br, ok, err := ParseRange(r.RawRange, size)
	if err != nil {
		return err
	}
	if ok {
		r.Range = &br
	}
	return nil
}

// IsSafe reports whether the method is a safe method (GET/HEAD/OPTIONS).
func (r *Request) IsSafe() bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

func stripParams(contentType string) string {
	for i, c := range contentType {
		if c == ';' {
			return contentType[:i]
		}
	}
	return contentType
}

func parseEpochSeconds(v string) (int64, error) {
	var n int64
	var neg bool
	i := 0
	if len(v) > 0 && v[0] == '-' {
		neg = true
		i = 1
	}
	if i == len(v) {
		return 0, errMalformed("version")
	}
	for ; i < len(v); i++ {
		c := v[i]
		if c < '0' || c > '9' {
			return 0, errMalformed("version")
		}
		n = n*10 + int64(c-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}

// CanonicalHeader normalizes a header name the way textproto does, useful
// when building Vary lists.
func CanonicalHeader(name string) string {
	return textproto.CanonicalMIMEHeaderKey(name)
}
