package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/GophStore/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// dummyHandler records whether it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

type errStore struct{ session.MemoryStore }

func (*errStore) Get(context.Context, string) (*session.Session, error) {
	return nil, errors.New("redis down")
}

func TestLoad_AttachesSession(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), &session.Session{ID: "s-1", UserID: "u-1"}, time.Hour))
	dummy := &dummyHandler{}
	h := (&Sessions{Store: store, Log: zap.NewNop()}).Load(dummy)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "s-1"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, dummy.called)
	sess := SessionFromContext(dummy.ctx)
	require.NotNil(t, sess)
	assert.Equal(t, "u-1", sess.UserID)
}

func TestLoad_UnknownOrBrokenStore(t *testing.T) {
	for name, store := range map[string]session.Store{
		"unknown": session.NewMemoryStore(),
		"error":   &errStore{},
	} {
		t.Run(name, func(t *testing.T) {
			dummy := &dummyHandler{}
			h := (&Sessions{Store: store, Log: zap.NewNop()}).Load(dummy)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "nope"})
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.True(t, dummy.called)
			assert.Nil(t, SessionFromContext(dummy.ctx))
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		sess     *session.Session
		wantCode int
		wantNext bool
	}{
		{name: "page without login", method: http.MethodGet, path: "/admin", wantCode: http.StatusSeeOther},
		{name: "api without login", method: http.MethodGet, path: "/api/accounts", wantCode: http.StatusForbidden},
		{name: "pending second factor", method: http.MethodPost, path: "/add_account", sess: &session.Session{IsAdmin: true, Pending: true}, wantCode: http.StatusForbidden},
		{name: "not admin", method: http.MethodGet, path: "/api/accounts", sess: &session.Session{}, wantCode: http.StatusForbidden},
		{name: "admin", method: http.MethodGet, path: "/api/accounts", sess: &session.Session{IsAdmin: true}, wantCode: http.StatusOK, wantNext: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dummy := &dummyHandler{}
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.sess != nil {
				req = req.WithContext(WithSession(req.Context(), tt.sess))
			}
			rec := httptest.NewRecorder()
			RequireAdmin(dummy).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantNext, dummy.called)
		})
	}
}

func TestRequireAdmin_RedirectTarget(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireAdmin(&dummyHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireCSRF(t *testing.T) {
	sess := &session.Session{IsAdmin: true, CSRFToken: "tok"}
	post := func(token string, header bool) *http.Request {
		form := url.Values{"email": {"a@b.c"}}
		if token != "" && !header {
			form.Set("csrf_token", token)
		}
		req := httptest.NewRequest(http.MethodPost, "/add_account", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header {
			req.Header.Set(CSRFHeader, token)
		}
		return req.WithContext(WithSession(req.Context(), sess))
	}

	for name, tc := range map[string]struct {
		req  *http.Request
		want int
	}{
		"form token":   {post("tok", false), http.StatusOK},
		"header token": {post("tok", true), http.StatusOK},
		"wrong token":  {post("nope", false), http.StatusForbidden},
		"no token":     {post("", false), http.StatusForbidden},
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RequireCSRF(&dummyHandler{}).ServeHTTP(rec, tc.req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
