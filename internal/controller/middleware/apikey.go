package middleware

import (
	"crypto/subtle"
	"net/http"
)

// RequireAPIKey ensures the request carries the administrative Api-Key
// header. No route on the current surface uses it; it is kept as the
// guard for future privileged operations.
func RequireAPIKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("Api-Key")
			if key == "" {
				http.Error(w, "Missing Api-Key header", http.StatusUnauthorized)
				return
			}

			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				http.Error(w, "Invalid Api-Key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
