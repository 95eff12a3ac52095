package server

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id on every response
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns the id assigned to the request, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func requestLogger(r *http.Request, base *log.Logger) *log.Logger {
	return base.With("requestId", RequestID(r.Context()), "method", r.Method, "path", r.URL.Path)
}

// statusRecorder remembers the status written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sr *statusRecorder) WriteHeader(status int) {
	if !sr.wroteHeader {
		sr.status = status
		sr.wroteHeader = true
	}
	sr.ResponseWriter.WriteHeader(status)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.wroteHeader {
		sr.WriteHeader(http.StatusOK)
	}
	return sr.ResponseWriter.Write(b)
}

// logRequests tags each request with an id and logs its outcome.
// 4xx responses log at warn, 5xx at error.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		logger := requestLogger(r, s.logger).With("status", rec.status, "duration", time.Since(start))
		switch {
		case rec.status >= http.StatusInternalServerError:
			logger.Error("Request completed")
		case rec.status >= http.StatusBadRequest:
			logger.Warn("Request completed")
		default:
			logger.Debug("Request completed")
		}
	})
}

// recoverPanics turns a handler panic into a 500 INTERNAL_ERROR
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			requestLogger(r, s.logger).Error("Panic handling request", "panic", recovered, "stack", string(debug.Stack()))
			if rec.wroteHeader {
				return
			}
			_, body := s.errorResponse(r, errPanic)
			writeJSON(rec, http.StatusInternalServerError, body)
		}()
		next.ServeHTTP(rec, r)
	})
}
