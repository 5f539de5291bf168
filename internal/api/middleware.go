package api

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/erazemk/precificacao/internal/errors"
	"github.com/erazemk/precificacao/internal/logger"
)

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

// LoggingMiddleware logs each request with a request id, method, path,
// status, latency and client IP. The id is returned in X-Request-ID.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP(r),
		}

		log := logger.Get()
		switch {
		case rec.status >= 500:
			log.Errorw("request", fields...)
		case rec.status >= 400:
			log.Warnw("request", fields...)
		default:
			log.Infow("request", fields...)
		}
	})
}

// RecoverMiddleware turns a panic in next into a 500 JSON response.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			err := apperrors.Wrap(apperrors.ErrInternal, fmt.Errorf("panic: %v", v))
			if rec.wroteHeader {
				logger.Get().Errorw("panic after response started", "error", err.Internal.Error(), "path", r.URL.Path)
				return
			}
			respondWithError(rec, r, err)
		}()
		next.ServeHTTP(rec, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
