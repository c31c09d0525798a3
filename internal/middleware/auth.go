package middleware

import (
	"net/http"
	"strings"

	"github.com/KOFI-GYIMAH/insight-gateway/pkg/logger"
)

// * AuthGate lets requests through when their path is on the allow-list or
// * they carry cookieName, and redirects everything else to authorizeURL.
// * Entries ending in "/" match any path below them.
func AuthGate(publicPaths []string, cookieName, authorizeURL string) func(http.Handler) http.Handler {
	exact := make(map[string]struct{}, len(publicPaths))
	var prefixes []string
	for _, p := range publicPaths {
		if strings.HasSuffix(p, "/") {
			prefixes = append(prefixes, p)
			continue
		}
		exact[p] = struct{}{}
	}

	isPublic := func(path string) bool {
		if _, ok := exact[path]; ok {
			return true
		}
		for _, p := range prefixes {
			if strings.HasPrefix(path, p) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if c, err := r.Cookie(cookieName); err != nil || c.Value == "" {
				logger.Debug("no %s cookie on %s, redirecting to identity provider", cookieName, r.URL.Path)
				http.Redirect(w, r, authorizeURL, http.StatusTemporaryRedirect)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
