// Package logger provides a request-scoped structured logger built on logrus.
package logger

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type contextKeyLoggerType struct{}

var contextKeyLogger = &contextKeyLoggerType{}

const (
	requestIDField = "requestID"
	agentField     = "agent"
)

// InitLogger configures the package-wide logrus logger.
func InitLogger(level logrus.Level) {
	formatter := new(logrus.TextFormatter)
	formatter.TimestampFormat = "2006-01-02 15:04:05"
	formatter.FullTimestamp = true
	logrus.SetFormatter(formatter)
	logrus.SetLevel(level)
}

// Default returns a logger with no request context attached.
func Default() *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger())
}

// AddRequestID installs a middleware that attaches a fresh logger with a
// generated request ID to every request context that doesn't have one yet.
func AddRequestID(router *mux.Router) {
	router.Use(func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, _ := ContextWithLogger(r.Context())
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	})
}

// ContextWithLogger returns a context carrying a logger, reusing one already
// present in ctx if any.
func ContextWithLogger(ctx context.Context) (context.Context, *logrus.Entry) {
	if ctx == nil {
		ctx = context.Background()
	}
	if existing := fromContext(ctx); existing != nil {
		return ctx, existing
	}
	id, _ := uuid.NewUUID()
	entry := logrus.WithField(requestIDField, id.String())
	return context.WithValue(ctx, contextKeyLogger, entry), entry
}

// ContextWithAgent returns a context whose logger additionally carries the
// resolved agent IRI for this request.
func ContextWithAgent(ctx context.Context, agentIRI string) context.Context {
	ctx, entry := ContextWithLogger(ctx)
	entry = entry.WithField(agentField, agentIRI)
	return context.WithValue(ctx, contextKeyLogger, entry)
}

func fromContext(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return nil
	}
	entry, _ := ctx.Value(contextKeyLogger).(*logrus.Entry)
	return entry
}

// FromContext returns the request-scoped logger, or the default logger if ctx
// carries none.
func FromContext(ctx context.Context) *logrus.Entry {
	if entry := fromContext(ctx); entry != nil {
		return entry
	}
	return Default()
}

// RequestIDFromContext returns the request ID carried by ctx's logger, or "".
func RequestIDFromContext(ctx context.Context) string {
	entry := fromContext(ctx)
	if entry == nil {
		return ""
	}
	v, ok := entry.Data[requestIDField].(string)
	if !ok {
		return ""
	}
	return v
}
