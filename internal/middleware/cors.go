package middleware

import "net/http"

const (
	corsAllowedHeaders = "Accept, Authorization, Content-Type, X-Request-ID"
	corsAllowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
)

// CORS allows any origin to call the API and answers preflight requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)
		w.Header().Set("Access-Control-Allow-Methods", corsAllowedMethods)
		w.Header().Set("Access-Control-Max-Age", "600")

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
