package engine

import (
	"net/http"

	"github.com/ldpworks/ldprepo/config"
	"github.com/ldpworks/ldprepo/linkheaders"
)

// HTTPError is the engine's error taxonomy per §7: a status code plus the
// extra response state (Allow, WWW-Authenticate challenges, constrainedBy
// link) a given status may carry.
type HTTPError struct {
	Status        int
	Message       string
	Allow         []string
	Challenges    []config.Challenge
	ConstrainedBy string
}

func (e *HTTPError) Error() string { return e.Message }

func clientSyntax(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: msg}
}

func notFound(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Message: msg}
}

func gone() *HTTPError {
	return &HTTPError{Status: http.StatusGone, Message: "resource has been deleted"}
}

func methodNotAllowed(allow []string) *HTTPError {
	return &HTTPError{Status: http.StatusMethodNotAllowed, Message: "method not allowed", Allow: allow}
}

func notAcceptable(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusNotAcceptable, Message: msg}
}

func conflict(msg, constrainedBy string) *HTTPError {
	return &HTTPError{Status: http.StatusConflict, Message: msg, ConstrainedBy: constrainedBy}
}

func preconditionFailed() *HTTPError {
	return &HTTPError{Status: http.StatusPreconditionFailed, Message: "precondition failed"}
}

func unsupportedMediaType(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusUnsupportedMediaType, Message: msg}
}

func preconditionRequired(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusPreconditionRequired, Message: msg}
}

func internalError(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusInternalServerError, Message: msg}
}

// writeError writes e to w, including the Allow, WWW-Authenticate and
// constrainedBy state it carries, per §7's "user-visible bodies" rule.
func writeError(w http.ResponseWriter, e *HTTPError) {
	if len(e.Allow) > 0 {
		w.Header().Set("Allow", joinAllow(e.Allow))
	}
	if e.ConstrainedBy != "" {
		w.Header().Add("Link", linkheaders.ConstrainedBy(e.ConstrainedBy).String())
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(e.Status)
	if e.Message != "" {
		w.Write([]byte(e.Message))
	}
}
