package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/classhour/backend/internal/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type actorKey struct{}

// actorHeader carries the caller identity. Authentication itself happens in
// front of this service; the core only needs the identity threaded through
// explicitly.
const actorHeader = "X-User-ID"

// identityMiddleware extracts the caller id from the request header and
// stores it on the context.
func identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get(actorHeader); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), actorKey{}, id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// actorID returns the caller identity or an authorization error when the
// header is missing or malformed.
func actorID(r *http.Request) (int64, error) {
	id, ok := r.Context().Value(actorKey{}).(int64)
	if !ok {
		return 0, apperr.Authorizationf("missing %s header", actorHeader)
	}
	return id, nil
}

// requestLogger logs each request with a generated request id.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()
			w.Header().Set("X-Request-ID", requestID)

			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			logger.Info("request handled",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rw.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
