// Package middleware provides HTTP middleware for the buddy API.
package middleware

import "net/http"

// CORS returns middleware that lets the configured frontend origins call
// the API from a browser. A lone "*" entry admits any origin but never
// with credentials; an explicitly listed origin is echoed back with
// credentials enabled.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAll := false
	explicit := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
			continue
		}
		explicit[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || explicit[origin]) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				h.Add("Vary", "Origin")
				if explicit[origin] {
					// Credentials never ride on a wildcard match; echoing an
					// arbitrary origin with credentials enables CSRF.
					h.Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
