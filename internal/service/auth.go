package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bigdeal/bigdeal/internal/model"
	"github.com/bigdeal/bigdeal/internal/store"
)

// Default credentials created by the bootstrap operation. The password must
// be changed after first login.
const (
	DefaultAdminUsername = "bigdealadmin"
	DefaultAdminPassword = "admin123"
)

var (
	// ErrInvalidCredentials is returned for an unknown username and for a
	// wrong password alike, so callers cannot distinguish the two.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenNotFound is returned when no account holds the reset token.
	ErrTokenNotFound = errors.New("reset token not found")
	// ErrResetTokenExpired is returned when the reset token's expiry has passed.
	ErrResetTokenExpired = errors.New("reset token expired")
)

// AuthService orchestrates the credential lifecycle: login, password change,
// and the forgot/reset-password token flow. It owns no HTTP concerns;
// cookie mechanics belong to the server boundary.
type AuthService struct {
	store    *store.Store
	sessions *SessionTokens
}

// NewAuthService creates a new AuthService.
func NewAuthService(st *store.Store, sessions *SessionTokens) *AuthService {
	return &AuthService{store: st, sessions: sessions}
}

// Sessions exposes the session token service for the HTTP middleware.
func (s *AuthService) Sessions() *SessionTokens {
	return s.sessions
}

// Login verifies the credentials and, on success, returns the account and a
// freshly issued session token. Unknown usernames and wrong passwords both
// fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.Admin, string, error) {
	admin, err := s.store.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login lookup: %w", err)
	}

	if !VerifyPassword(password, admin.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(admin.ID, admin.Username)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}
	return admin, token, nil
}

// ChangePassword verifies the current password and stores a hash of the new
// one. A wrong current password fails with ErrInvalidCredentials and leaves
// the stored hash untouched.
func (s *AuthService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	admin, err := s.store.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("change password lookup: %w", err)
	}

	if !VerifyPassword(currentPassword, admin.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.UpdateAdminPassword(ctx, username, hash)
}

// ForgotPassword issues a reset token valid for one hour and persists it on
// the account, overwriting any pending token. For an unknown username it
// returns an empty token and no error; the caller responds with the same
// generic message either way so usernames cannot be enumerated.
func (s *AuthService) ForgotPassword(ctx context.Context, username string) (string, error) {
	if _, err := s.store.GetAdminByUsername(ctx, username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("forgot password lookup: %w", err)
	}

	token, err := newResetToken()
	if err != nil {
		return "", err
	}
	expiry := time.Now().UTC().Add(ResetTokenTTL)

	if err := s.store.SetResetToken(ctx, username, token, expiry); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	return token, nil
}

// ResetPassword redeems a reset token: it validates the token and its
// expiry, then sets the new password hash and clears the token fields in a
// single conditional store update. A token is redeemable exactly once; a
// concurrent redemption losing the race fails with ErrTokenNotFound. The
// expiry instant itself is still valid — only strictly later redemptions
// fail with ErrResetTokenExpired.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	admin, err := s.store.GetAdminByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("reset password lookup: %w", err)
	}

	if resetTokenExpired(admin.ResetTokenExpiry, time.Now()) {
		return ErrResetTokenExpired
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.store.RedeemResetToken(ctx, token, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Token was cleared between lookup and redeem.
			return ErrTokenNotFound
		}
		return fmt.Errorf("redeem reset token: %w", err)
	}
	return nil
}

// EnsureDefaultAdmin creates the default admin account if it does not
// already exist. It reports whether an account was created, making the
// bootstrap operation idempotent.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) (bool, error) {
	_, err := s.store.GetAdminByUsername(ctx, DefaultAdminUsername)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("check default admin: %w", err)
	}

	hash, err := HashPassword(DefaultAdminPassword)
	if err != nil {
		return false, err
	}

	admin := &model.Admin{
		Username:     DefaultAdminUsername,
		PasswordHash: hash,
	}
	if err := s.store.CreateAdmin(ctx, admin); err != nil {
		return false, fmt.Errorf("create default admin: %w", err)
	}
	return true, nil
}
