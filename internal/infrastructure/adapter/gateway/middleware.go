package gateway

import (
	"log/slog"
	"net/http"

	"viterbit-gateway/internal/application/dto"
)

// Middleware wraps an http.Handler with one cross-cutting concern.
type Middleware func(http.Handler) http.Handler

// APIKeyAuth guards routes with an exact-match credential check on the
// X-API-Key header. An empty key set disables the guard, which is how the
// gateway runs inside trusted networks.
func APIKeyAuth(keys []string) Middleware {
	allowed := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key != "" {
			allowed[key] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		if len(allowed) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := r.Header.Get(apiKeyHeader)
			if _, ok := allowed[credential]; !ok {
				if len(credential) > 8 {
					credential = credential[:8]
				}
				slog.Warn("invalid API key attempt", "key_prefix", credential, "path", r.URL.Path)
				writeJSON(w, http.StatusUnauthorized, dto.ErrorDetail{Detail: "Invalid API key"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORS reflects allowed request origins with credentials permitted and
// answers preflight requests directly. It must wrap the credential guard:
// browsers send preflights without custom headers, so an OPTIONS request
// can never carry the API key.
func CORS(allowedOrigins []string) Middleware {
	wildcard := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			wildcard = true
			continue
		}
		if origin != "" {
			allowed[origin] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				if _, member := allowed[origin]; wildcard || member {
					header := w.Header()
					header.Set("Access-Control-Allow-Origin", origin)
					header.Set("Access-Control-Allow-Credentials", "true")
					header.Add("Vary", "Origin")
				}
			}

			if r.Method == http.MethodOptions && origin != "" {
				header := w.Header()
				header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
					header.Set("Access-Control-Allow-Headers", requested)
				} else {
					header.Set("Access-Control-Allow-Headers", "Content-Type, "+apiKeyHeader)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
