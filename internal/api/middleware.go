package api

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/oleg578/delimconv/pkg/logger"
)

// RequestLogger returns a middleware that logs HTTP requests. It copies the
// chi request id into the context so handlers can log with WithContext.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			requestID := middleware.GetReqID(r.Context())
			ctx := logger.ContextWithRequestID(r.Context(), requestID)

			defer func() {
				log.WithContext(ctx).Info("request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start).String(),
					"remote_addr", r.RemoteAddr,
				)
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}

// Recovery returns a middleware that recovers from panics and logs the error
// under a fresh correlation id, which is also returned to the client.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					correlationID := uuid.NewString()

					log.WithContext(r.Context()).Error("panic recovered",
						"error", rec,
						"correlation_id", correlationID,
						"error_code", CodeInternalError,
						"stack_trace", string(debug.Stack()),
						"method", r.Method,
						"path", r.URL.Path,
					)

					apiErr := NewInternalError("An unexpected error occurred").
						WithRequestID(logger.RequestIDFromContext(r.Context()))
					apiErr.Details = map[string]any{"correlation_id": correlationID}
					WriteError(w, apiErr)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
