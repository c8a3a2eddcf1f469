package model

import (
	"sort"
	"strconv"
	"strings"
)

// AcceptEntry is one parsed entry of an Accept header: a media type plus its
// parameters (including "q" and, for JSON-LD, "profile").
type AcceptEntry struct {
	Type    string // e.g. "text/turtle" or "*/*"
	Params  map[string]string
	Quality float64
}

// Profiles returns the space-separated profile IRIs carried by this entry's
// "profile" parameter, in order.
func (e AcceptEntry) Profiles() []string {
	v, ok := e.Params["profile"]
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

// Matches reports whether this Accept entry is compatible with the concrete
// media type mediaType (exact match or a wildcard match on type or subtype).
func (e AcceptEntry) Matches(mediaType string) bool {
	if e.Type == "*/*" {
		return true
	}
	typ, sub, ok := strings.Cut(mediaType, "/")
	if !ok {
		return e.Type == mediaType
	}
	eTyp, eSub, ok := strings.Cut(e.Type, "/")
	if !ok {
		return false
	}
	if eSub == "*" {
		return eTyp == typ
	}
	return eTyp == typ && eSub == sub
}

// ParseAccept parses an Accept header into entries ordered by descending
// quality (ties preserve header order). An empty or missing header yields a
// single implicit "*/*" entry. Malformed entries are a 400 per §4.1.
func ParseAccept(raw string) ([]AcceptEntry, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []AcceptEntry{{Type: "*/*", Quality: 1, Params: map[string]string{}}}, nil
	}
	var entries []AcceptEntry
	for i, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ";")
		typ := strings.ToLower(strings.TrimSpace(fields[0]))
		if !strings.Contains(typ, "/") {
			return nil, errMalformed("Accept")
		}
		entry := AcceptEntry{Type: typ, Quality: 1, Params: map[string]string{}}
		for _, p := range fields[1:] {
			p = strings.TrimSpace(p)
			key, value, hasValue := strings.Cut(p, "=")
			if !hasValue {
				continue
			}
			key = strings.ToLower(strings.TrimSpace(key))
			value = strings.Trim(strings.TrimSpace(value), `"`)
			if key == "q" {
				q, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return nil, errMalformed("Accept")
				}
				entry.Quality = q
			} else {
				entry.Params[key] = value
			}
		}
		entry.Params["__order"] = strconv.Itoa(i)
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, errMalformed("Accept")
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Quality > entries[j].Quality
	})
	return entries, nil
}

type malformedError string

func (e malformedError) Error() string { return string(e) }

func errMalformed(header string) error {
	return malformedError("malformed " + header + " header")
}
