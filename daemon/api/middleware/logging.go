package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/steelburn/ai-stack-build/daemon/logger"
)

var skipPaths = map[string]bool{
	"/metrics":     true,
	"/favicon.ico": true,
}

// Logging records a structured line per request, skipping the scrape
// endpoint so it doesn't drown the log at one line per Prometheus pull.
func Logging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapper, r)

			if skipPaths[r.URL.Path] {
				return
			}

			duration := time.Since(start)
			requestID := GetRequestIDFromContext(r)
			logger.LogAPIRequest(requestID, r.Method, r.URL.Path, wrapper.statusCode, duration)

			if wrapper.statusCode >= 500 {
				logger.Error("HTTP %d for %s %s [%s]", wrapper.statusCode, r.Method, r.URL.Path, requestID)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
// written, and forwards Flush/Hijack so streaming and the websocket
// upgrade still work through this middleware.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("response writer does not support hijacking")
}
