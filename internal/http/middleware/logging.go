package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/auth"
	"github.com/hiland-surveyors/survey-api/internal/logger"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// requestLog is filled in by inner middleware so the access log line can
// name the authenticated admin
type requestLog struct {
	adminID string
}

type requestLogKey struct{}

// Logging middleware logs HTTP requests and stores a request-scoped logger
// in the context
func Logging(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set(RequestIDHeader, requestID)

			entry := &requestLog{}
			reqLogger := logger.WithRequest(base, r.Method, r.URL.Path, requestID)
			ctx := context.WithValue(r.Context(), requestLogKey{}, entry)
			ctx = logger.NewContext(ctx, reqLogger)

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r.WithContext(ctx))

			duration := time.Since(start)

			fields := []zap.Field{
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status_code", rw.statusCode),
				zap.Int64("response_size", rw.written),
				zap.Duration("duration", duration),
			}
			if entry.adminID != "" {
				fields = append(fields, zap.String("admin_id", entry.adminID))
			}

			base.Info(
				fmt.Sprintf("%s %-30s -> %3d (%s)",
					r.Method,
					r.URL.Path,
					rw.statusCode,
					duration.Truncate(time.Microsecond),
				),
				fields...,
			)
		})
	}
}

// TagAdmin runs after authentication and adds the admin id to the
// request-scoped logger and the access log line
func TagAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		adminID, ok := auth.AdminIDFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if entry, ok := r.Context().Value(requestLogKey{}).(*requestLog); ok {
			entry.adminID = adminID.String()
		}
		reqLogger := logger.FromContext(r.Context(), zap.NewNop())
		ctx := logger.NewContext(r.Context(), logger.WithAdmin(reqLogger, adminID.String()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
