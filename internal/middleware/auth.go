// Package middleware provides HTTP middlewares for sessions, rate
// limiting and logging.
package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/atinyakov/GophStore/internal/session"
	"go.uber.org/zap"
)

type ctxKey string

const sessionKey ctxKey = "session"

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "store_session"

// CSRFHeader may carry the CSRF token instead of the csrf_token form field.
const CSRFHeader = "X-CSRF-Token"

// Sessions loads the session named by the request cookie into the
// request context.
type Sessions struct {
	Store session.Store
	Log   *zap.Logger
}

// Load attaches the session, if any, to the request context. Store errors
// are logged and the request continues unauthenticated.
func (s *Sessions) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		sess, err := s.Store.Get(r.Context(), c.Value)
		if err != nil {
			s.Log.Warn("failed to load session", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if sess != nil {
			r = r.WithContext(WithSession(r.Context(), sess))
		}
		next.ServeHTTP(w, r)
	})
}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext returns the session stored in ctx, or nil.
func SessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}

// Authenticated returns the completed login session of ctx, or nil while
// the second factor is still pending.
func Authenticated(ctx context.Context) *session.Session {
	sess := SessionFromContext(ctx)
	if sess == nil || sess.Pending {
		return nil
	}
	return sess
}

func wantsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && !strings.HasPrefix(r.URL.Path, "/api/")
}

// RequireAdmin lets through only completed admin logins. Page requests
// without a login are redirected to /login; everything else gets 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := Authenticated(r.Context())
		if sess == nil && wantsHTML(r) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if sess == nil || !sess.IsAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCSRF rejects state-changing requests whose token does not match
// the session's.
func RequireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		sess := Authenticated(r.Context())
		token := r.Header.Get(CSRFHeader)
		if token == "" {
			token = r.FormValue("csrf_token")
		}
		if sess == nil || token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(sess.CSRFToken)) != 1 {
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
