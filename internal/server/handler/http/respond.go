// Package http provides the HTTP handlers of the store: the public
// storefront, the back-office pages and the JSON API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/atinyakov/GophStore/internal/service"
	"go.uber.org/zap"
)

// Result is the outcome body of every mutating JSON endpoint.
type Result struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	BannerID string `json:"banner_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, Result{Success: true, Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, Result{Message: "invalid request body"})
		return false
	}
	return true
}

// statusFor maps service errors onto response codes. Storage failures are
// never shown to the client.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrAccountLocked):
		return http.StatusLocked, "account locked after repeated failures, try again in 30 minutes"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, service.ErrInvalidCode):
		return http.StatusUnauthorized, "invalid 2FA code"
	}
	return http.StatusInternalServerError, "internal error"
}

func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, Result{Message: msg})
}

// redirectAdmin sends form posts back to the admin page with a notice.
func redirectAdmin(w http.ResponseWriter, r *http.Request, notice string) {
	http.Redirect(w, r, "/admin?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}

func formError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("form request failed", zap.Error(err))
	}
	redirectAdmin(w, r, "Error: "+msg)
}
