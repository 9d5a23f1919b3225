package handlers

import (
	"fmt"
	"net/http"
	"time"

	"pos-service/internal/logger"

	"github.com/google/uuid"
)

// RequestLogger tags every request with a generated id and logs the
// method/path pair on the way in.
func RequestLogger(mylog *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			w.Header().Set("X-Request-ID", requestID)

			start := time.Now()
			next.ServeHTTP(w, r)

			mylog.Info(requestID, "http_request",
				fmt.Sprintf("%s %s completed in %s", r.Method, r.URL.Path, time.Since(start)))
		})
	}
}
