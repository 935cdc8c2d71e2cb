package middleware

import (
	"fmt"
	"net/http"

	"github.com/cloo-solutions/classmate/internal/api"
	"go.uber.org/zap"
)

// MaxBodyBytes caps request bodies at limit bytes. Requests that declare a
// larger Content-Length are rejected before the handler runs; bodies of
// unknown length fail when a handler reads past the limit.
func MaxBodyBytes(limit int64, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	message := fmt.Sprintf("request body too large (max %d bytes)", limit)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 || r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > limit {
				logger.Warn("request body rejected",
					zap.String("path", r.URL.Path),
					zap.Int64("content_length", r.ContentLength),
					zap.Int64("limit", limit),
					zap.String("request_id", GetRequestID(r.Context())),
				)
				api.Error(w, http.StatusRequestEntityTooLarge, message)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
