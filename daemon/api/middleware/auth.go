package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/steelburn/ai-stack-build/daemon/domain"
)

// BasicAuth gates the template views behind MONITORING_USERNAME/
// MONITORING_PASSWORD, falling back to /run/secrets/<name> the same way
// the rest of the daemon's secret-bearing config resolves, grounded on
// the original monitor's check_auth/requires_auth pair. When cfg.Enabled
// is false the middleware is a no-op passthrough, and when Enabled is true
// but no credentials resolve it fails closed (every request rejected)
// rather than silently granting access.
func BasicAuth(cfg domain.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled {
			return next
		}

		username := resolveSecret(cfg.Username, cfg.UsernameSecret, cfg.SecretsDir, "monitoring_username")
		password := resolveSecret(cfg.Password, cfg.PasswordSecret, cfg.SecretsDir, "monitoring_password")

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if username == "" || password == "" {
				http.Error(w, "authentication not configured", http.StatusUnauthorized)
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
				subtle.ConstantTimeCompare([]byte(pass), []byte(password)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="ai-stack monitor"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// resolveSecret prefers an explicit value, then the environment variable
// named after fallbackName in upper case (MONITORING_USERNAME), then the
// file under secretsDir named secretName, or fallbackName when secretName
// is empty, with trailing whitespace trimmed.
func resolveSecret(value, secretName, secretsDir, fallbackName string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(strings.ToUpper(fallbackName)); env != "" {
		return env
	}

	name := secretName
	if name == "" {
		name = fallbackName
	}
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}

	data, err := os.ReadFile(filepath.Join(secretsDir, strings.ToLower(name)))
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(data), "\r\n \t")
}
