package http

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/atinyakov/GophStore/internal/middleware"
	"github.com/atinyakov/GophStore/internal/models"
	"github.com/atinyakov/GophStore/internal/service"
	"github.com/atinyakov/GophStore/internal/session"
	"go.uber.org/zap"
)

// AuthService defines the login steps required by the AuthHandler.
type AuthService interface {
	// CheckPassword runs the password step and returns the 2FA challenge.
	CheckPassword(ctx context.Context, email, password string) (*service.Challenge, error)
	// VerifyCode runs the second-factor step for the challenged user.
	VerifyCode(ctx context.Context, userID, code string) (*models.User, error)
}

// pendingTTL bounds the time between the password and the code step.
const pendingTTL = 10 * time.Minute

// AuthHandler handles the back-office login and logout.
type AuthHandler struct {
	AuthService AuthService
	Sessions    session.Store
	// SessionTTL is the lifetime of a completed login.
	SessionTTL time.Duration
	Log        *zap.Logger
}

type loginPage struct {
	Error    string
	Email    string
	Show2FA  bool
	Setup2FA bool
	Secret   string
	// QRCode is a data URI of the enrollment PNG.
	QRCode   template.URL
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.Authenticated(r.Context()) != nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	sess := middleware.SessionFromContext(r.Context())
	render(w, h.Log, http.StatusOK, "login.html", loginPage{Show2FA: sess != nil && sess.Pending})
}

// Login handles POST /login. A request carrying code_2fa completes a
// pending login; anything else starts one with email and password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if code := strings.TrimSpace(r.FormValue("code_2fa")); code != "" {
		if pending := middleware.SessionFromContext(r.Context()); pending != nil && pending.Pending {
			h.verify(w, r, pending, code)
			return
		}
	}

	email := strings.TrimSpace(r.FormValue("email"))
	ch, err := h.AuthService.CheckPassword(r.Context(), email, r.FormValue("password"))
	if err != nil {
		h.loginError(w, err, loginPage{Email: email})
		return
	}

	pending, err := session.New(ch.UserID, ch.Email, false, true, time.Now(), pendingTTL)
	if err != nil {
		h.loginError(w, err, loginPage{})
		return
	}
	if err := h.Sessions.Save(r.Context(), pending, pendingTTL); err != nil {
		h.loginError(w, err, loginPage{})
		return
	}
	setSessionCookie(w, r, pending)

	render(w, h.Log, http.StatusOK, "login.html", loginPage{
		Email:    ch.Email,
		Show2FA:  !ch.Enroll,
		Setup2FA: ch.Enroll,
		Secret:   ch.Secret,
		QRCode:   qrDataURI(ch.QRCode),
	})
}

func qrDataURI(png string) template.URL {
	if png == "" {
		return ""
	}
	return template.URL("data:image/png;base64," + png)
}

func (h *AuthHandler) verify(w http.ResponseWriter, r *http.Request, pending *session.Session, code string) {
	u, err := h.AuthService.VerifyCode(r.Context(), pending.UserID, code)
	if err != nil {
		page := loginPage{Show2FA: true}
		if errors.Is(err, service.ErrAccountLocked) {
			page.Show2FA = false
			_ = h.Sessions.Delete(r.Context(), pending.ID)
			clearSessionCookie(w)
		}
		h.loginError(w, err, page)
		return
	}

	full, err := session.New(u.ID, u.Email, u.IsAdmin, false, time.Now(), h.SessionTTL)
	if err != nil {
		h.loginError(w, err, loginPage{})
		return
	}
	if err := h.Sessions.Save(r.Context(), full, h.SessionTTL); err != nil {
		h.loginError(w, err, loginPage{})
		return
	}
	if err := h.Sessions.Delete(r.Context(), pending.ID); err != nil {
		h.Log.Warn("failed to delete pending session", zap.Error(err))
	}
	setSessionCookie(w, r, full)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AuthHandler) loginError(w http.ResponseWriter, err error, page loginPage) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Log.Error("login failed", zap.Error(err))
	}
	page.Error = msg
	render(w, h.Log, status, "login.html", page)
}

// Logout handles GET /logout.
// It deletes the session, clears the cookie and redirects to /login.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.SessionFromContext(r.Context()); sess != nil {
		if err := h.Sessions.Delete(r.Context(), sess.ID); err != nil {
			h.Log.Warn("failed to delete session", zap.Error(err))
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
