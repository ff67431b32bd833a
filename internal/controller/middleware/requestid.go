package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"gridpay/internal/logger"
)

// RequestID tags every request with a correlation id. A client-supplied
// X-Request-Id is honored so retries can be traced end to end; otherwise
// a fresh one is minted. The id lands in the request context and is
// echoed back in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		w.Header().Set("X-Request-Id", reqID)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), reqID)))
	})
}
