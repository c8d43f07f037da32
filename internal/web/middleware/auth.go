package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/koeppern/gtd-system-sub000/internal/config"
	"github.com/koeppern/gtd-system-sub000/internal/logging"
)

// HeaderAPIKey carries the client's API key.
const HeaderAPIKey = "X-API-Key"

// APIKeyAuth returns middleware that validates the X-API-Key header.
// Keys are enforced when RequireAPIKey is set or any key is configured.
// RequireAPIKey without keys rejects every request.
func APIKeyAuth(cfg config.SecurityConfig) func(http.Handler) http.Handler {
	enforced := cfg.RequireAPIKey || len(cfg.APIKeys) > 0

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enforced {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(HeaderAPIKey)
			logger := logging.WithFields(r.Context(),
				"path", r.URL.Path,
				"method", r.Method,
				"remote_addr", r.RemoteAddr,
			)

			if key == "" {
				logger.Warn("auth: missing API key")
				denied(w, http.StatusUnauthorized, "missing API key", "AUTH001")
				return
			}
			if !isValidAPIKey(key, cfg.APIKeys) {
				logger.Warn("auth: invalid API key")
				denied(w, http.StatusForbidden, "invalid API key", "AUTH002")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func denied(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}

// isValidAPIKey compares against every key so timing does not reveal
// which one matched.
func isValidAPIKey(key string, validKeys []string) bool {
	valid := 0
	for _, validKey := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(validKey))
	}
	return valid == 1
}
