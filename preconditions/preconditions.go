// Package preconditions evaluates HTTP conditional-request headers against a
// resource's current state, per §4.3.
package preconditions

import (
	"net/http"
	"time"

	"github.com/ldpworks/ldprepo/model"
)

// Outcome is the result of evaluating preconditions: either the request may
// proceed, or it must short-circuit with the given status.
type Outcome struct {
	// Status is 0 when the request may proceed, or http.StatusPreconditionFailed
	// (412) / http.StatusNotModified (304) otherwise.
	Status int
}

// Proceed reports whether the caller should continue handling the request.
func (o Outcome) Proceed() bool { return o.Status == 0 }

// State is the current representation state preconditions are evaluated
// against.
type State struct {
	Exists       bool
	LastModified time.Time
	ETag         model.ETag
}

// Evaluate implements the §4.3 evaluation order exactly:
//  1. If-Match: a present header whose entries none match is 412. A
//     NonRDFSource's ETag is always strong, so its If-Match uses strong
//     comparison (a weak tag never matches a binary); an RDFSource's ETag is
//     always weak, so weak-on-weak is accepted per the §9 resolution.
//  2. If-Unmodified-Since: last-modified after the date is 412.
//  3. If-None-Match: weak match is 304 for safe methods, 412 otherwise.
//  4. If-Modified-Since (safe methods only): last-modified at or before the
//     date is 304.
//
// Evaluation is pure: it has no side effects and may be called more than once
// for the same request.
func Evaluate(req *model.Request, state State) Outcome {
	if req.IfMatch.Present() {
		matched := req.IfMatch.MatchesStrong(state.ETag, state.Exists)
		if !matched && state.ETag.Weak {
			matched = req.IfMatch.MatchesWeak(state.ETag, state.Exists)
		}
		if !matched {
			return Outcome{Status: http.StatusPreconditionFailed}
		}
	}

	if req.IfUnmodifiedSince != nil && state.Exists && state.LastModified.After(*req.IfUnmodifiedSince) {
		return Outcome{Status: http.StatusPreconditionFailed}
	}

	safe := req.IsSafe()

	if req.IfNoneMatch.Present() {
		matched := req.IfNoneMatch.MatchesWeak(state.ETag, state.Exists)
		if matched {
			if safe {
				return Outcome{Status: http.StatusNotModified}
			}
			return Outcome{Status: http.StatusPreconditionFailed}
		}
	}

	if safe && req.IfModifiedSince != nil && state.Exists && !state.LastModified.After(*req.IfModifiedSince) {
		return Outcome{Status: http.StatusNotModified}
	}

	return Outcome{}
}
