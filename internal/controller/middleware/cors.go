// Package middleware contains HTTP middleware for the controller.
package middleware

import "net/http"

// CORS restricts cross-origin access to the given allow-list. A request
// from a non-listed origin has the first allow-listed origin reflected
// back, which the browser then rejects for that caller. Tightening this
// to an outright denial would change observable behavior for existing
// clients, so the fallback is kept.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				reflected := allowedOrigins[0]
				if allowed[origin] {
					reflected = origin
				}
				w.Header().Set("Access-Control-Allow-Origin", reflected)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Api-Key")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
