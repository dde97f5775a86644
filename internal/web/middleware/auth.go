package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/catalog-import/internal/config"
	"github.com/JonMunkholm/catalog-import/internal/core"
)

// APIKeyAuth returns middleware that validates X-API-Key header against configured keys.
// If RequireAPIKey is false, all requests pass through.
// If RequireAPIKey is true but no keys are configured, all requests are rejected.
//
// An accepted key is recorded as the import actor "api-key:<n>", n being the
// key's 1-based position in API_KEYS, so the key itself never reaches the
// import log.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")

			if !cfg.RequireAPIKey {
				if idx := matchAPIKey(apiKey, cfg.APIKeys); idx >= 0 {
					r = r.WithContext(core.ContextWithActor(r.Context(), actorLabel(idx)))
				}
				next.ServeHTTP(w, r)
				return
			}

			if apiKey == "" {
				slog.Warn("auth: missing API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				writeAuthError(w, http.StatusUnauthorized, "missing API key", "AUTH_MISSING_KEY")
				return
			}

			idx := matchAPIKey(apiKey, cfg.APIKeys)
			if idx < 0 {
				slog.Warn("auth: invalid API key",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				writeAuthError(w, http.StatusForbidden, "invalid API key", "AUTH_INVALID_KEY")
				return
			}

			next.ServeHTTP(w, r.WithContext(core.ContextWithActor(r.Context(), actorLabel(idx))))
		})
	}
}

// matchAPIKey returns the index of key in validKeys, or -1.
// Uses constant-time comparison and checks ALL keys so the comparison time
// does not depend on which key matches.
func matchAPIKey(key string, validKeys []string) int {
	if key == "" {
		return -1
	}
	match := -1
	for i, validKey := range validKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(validKey)) == 1 {
			match = i
		}
	}
	return match
}

func actorLabel(idx int) string {
	return "api-key:" + strconv.Itoa(idx+1)
}

func writeAuthError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `","code":"` + code + `"}`))
}
