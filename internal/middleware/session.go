package middleware

import (
	"context"
	"net/http"

	"github.com/KOFI-GYIMAH/insight-gateway/pkg/logger"
	"github.com/gorilla/sessions"
)

const SessionName = "session"

// * NewCookieStore signs session cookies with secret; secure is off in dev mode
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// * Session loads the signed session for every request and exposes it via SessionFrom.
// * A cookie that fails verification yields a fresh session.
func Session(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				logger.Warn("discarding invalid session cookie: %v", err)
			}
			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionFrom(ctx context.Context) *sessions.Session {
	s, _ := ctx.Value(sessionKey).(*sessions.Session)
	return s
}
