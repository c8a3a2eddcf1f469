package model

import (
	"fmt"
	"sort"
	"strings"
)

// Link is a single entry of an HTTP Link header (RFC 8288).
type Link struct {
	Target string
	Rel    string
	Params map[string]string
}

// String renders the link per RFC 8288, e.g. `<url>; rel="type"`.
func (l Link) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<%s>; rel=%q", l.Target, l.Rel)
	for _, k := range orderedParamKeys(l.Params) {
		fmt.Fprintf(&b, "; %s=%q", k, l.Params[k])
	}
	return b.String()
}

func orderedParamKeys(params map[string]string) []string {
	if len(params) == 0 {
		return nil
	}
	// stable, deterministic order for tests: datetime first, then the rest alphabetically.
	keys := make([]string, 0, len(params))
	if _, ok := params["datetime"]; ok {
		keys = append(keys, "datetime")
	}
	var rest []string
	for k := range params {
		if k == "datetime" {
			continue
		}
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// ParseLinkHeader parses the value(s) of one or more Link headers into
// individual entries. A malformed entry is skipped rather than failing the
// whole request, since §4.1 only requires Link to be understood well enough
// to validate rel="type" on POST/PUT.
func ParseLinkHeader(values []string) []Link {
	var links []Link
	for _, raw := range values {
		for _, entry := range splitLinkEntries(raw) {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			l, ok := parseLinkEntry(entry)
			if ok {
				links = append(links, l)
			}
		}
	}
	return links
}

func splitLinkEntries(raw string) []string {
	var entries []string
	var depth int
	start := 0
	for i, r := range raw {
		switch r {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				entries = append(entries, raw[start:i])
				start = i + 1
			}
		}
	}
	entries = append(entries, raw[start:])
	return entries
}

func parseLinkEntry(entry string) (Link, bool) {
	start := strings.IndexByte(entry, '<')
	end := strings.IndexByte(entry, '>')
	if start < 0 || end < 0 || end < start {
		return Link{}, false
	}
	target := entry[start+1 : end]
	l := Link{Target: target, Params: map[string]string{}}
	rest := entry[end+1:]
	for _, param := range strings.Split(rest, ";") {
		param = strings.TrimSpace(param)
		if param == "" {
			continue
		}
		key, value, hasValue := strings.Cut(param, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.Trim(strings.TrimSpace(value), `"`)
		if !hasValue {
			continue
		}
		if key == "rel" {
			l.Rel = value
		} else {
			l.Params[key] = value
		}
	}
	return l, true
}

// FirstByRel returns the first link with the given rel value, and true if found.
func FirstByRel(links []Link, rel string) (Link, bool) {
	for _, l := range links {
		if l.Rel == rel {
			return l, true
		}
	}
	return Link{}, false
}
