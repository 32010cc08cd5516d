package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bigdeal/bigdeal/internal/server/middleware"
	"github.com/bigdeal/bigdeal/internal/service"
)

// minPasswordLength is enforced on change-password and reset-password. Login
// only requires a non-empty password so pre-existing short passwords can
// still authenticate.
const minPasswordLength = 6

// AuthHandler exposes the admin credential lifecycle over HTTP: login,
// logout, identity, password change, and the forgot/reset-password flow.
// It owns the session cookie mechanics; token issuance and verification
// live in the service layer.
type AuthHandler struct {
	authSvc       *service.AuthService
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler. secureCookies marks the session
// cookie Secure; enable it in any production deployment.
func NewAuthHandler(authSvc *service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, secureCookies: secureCookies}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.authSvc.Sessions().TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Login authenticates the admin and sets the session cookie.
// POST /admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	var fields fieldErrors
	if req.Username == "" {
		fields.add("username", "Username is required")
	}
	if req.Password == "" {
		fields.add("password", "Password is required")
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	admin, token, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"admin":   adminPayload{ID: admin.ID, Username: admin.Username},
	})
}

// Logout clears the session cookie. It succeeds whether or not a session
// cookie was present.
// POST /admin/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Me returns the identity embedded in the verified session cookie.
// GET /admin/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"admin": adminPayload{ID: principal.AdminID, Username: principal.Username},
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword verifies the current password and replaces it with a hash
// of the new one.
// POST /admin/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req changePasswordRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var fields fieldErrors
	if req.CurrentPassword == "" {
		fields.add("currentPassword", "Current password is required")
	}
	if len(req.NewPassword) < minPasswordLength {
		fields.add("newPassword", "New password must be at least 6 characters")
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	err := h.authSvc.ChangePassword(r.Context(), principal.Username, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password changed successfully",
	})
}

type forgotPasswordRequest struct {
	Username string `json:"username"`
}

// ForgotPassword issues a reset token for the account. The response is the
// same generic message whether or not the username exists; when it does,
// the token is included in the payload — there is no out-of-band delivery
// channel in this system.
// POST /admin/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		writeFieldErrors(w, fieldErrors{{Field: "username", Message: "Username is required"}})
		return
	}

	token, err := h.authSvc.ForgotPassword(r.Context(), req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if token == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "If the username exists, a reset token has been generated",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Reset token generated",
		"resetToken": token,
	})
}

type resetPasswordRequest struct {
	ResetToken  string `json:"resetToken"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword redeems a reset token and sets the new password. Unknown
// and expired tokens yield the same client-facing failure.
// POST /admin/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var fields fieldErrors
	if req.ResetToken == "" {
		fields.add("resetToken", "Reset token is required")
	}
	if len(req.NewPassword) < minPasswordLength {
		fields.add("newPassword", "New password must be at least 6 characters")
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	err := h.authSvc.ResetPassword(r.Context(), req.ResetToken, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrTokenNotFound) || errors.Is(err, service.ErrResetTokenExpired) {
			writeError(w, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password reset successfully",
	})
}

// Init creates the default admin account if none exists. The operation is
// idempotent; the default credentials are returned only on first creation.
// POST /admin/init
func (h *AuthHandler) Init(w http.ResponseWriter, r *http.Request) {
	created, err := h.authSvc.EnsureDefaultAdmin(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if !created {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Admin already exists",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Default admin created",
		"credentials": map[string]string{
			"username": service.DefaultAdminUsername,
			"password": service.DefaultAdminPassword,
		},
	})
}
