package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bigdeal/bigdeal/internal/model"
	"github.com/bigdeal/bigdeal/internal/store"
)

const testSecret = "test-secret-for-service-tests"

func newTestAuthService(t *testing.T) (*AuthService, *store.Store) {
	t.Helper()
	st, err := store.Open("sqlite", "") // in-memory
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc := NewAuthService(st, NewSessionTokens(testSecret, SessionTTL))
	return svc, st
}

func seedAdmin(t *testing.T, st *store.Store, username, password string) *model.Admin {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	admin := &model.Admin{Username: username, PasswordHash: hash}
	if err := st.CreateAdmin(context.Background(), admin); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	return admin
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2!" {
		t.Fatal("hash must not equal plaintext")
	}
	if !VerifyPassword("hunter2!", hash) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("hunter3!", hash) {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("hunter2!", "not-a-bcrypt-hash") {
		t.Error("garbage hash accepted")
	}
}

func TestSessionTokens_IssueVerify(t *testing.T) {
	tokens := NewSessionTokens(testSecret, time.Hour)

	tok, err := tokens.Issue("id-1", "boss")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	p, err := tokens.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.AdminID != "id-1" || p.Username != "boss" {
		t.Errorf("principal = %+v, want id-1/boss", p)
	}
}

func TestSessionTokens_Expired(t *testing.T) {
	tokens := NewSessionTokens(testSecret, -time.Minute)

	tok, err := tokens.Issue("id-1", "boss")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := tokens.Verify(tok); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestSessionTokens_WrongSecret(t *testing.T) {
	tok, err := NewSessionTokens("secret-a", time.Hour).Issue("id-1", "boss")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := NewSessionTokens("secret-b", time.Hour).Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSessionTokens_Garbage(t *testing.T) {
	tokens := NewSessionTokens(testSecret, time.Hour)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := tokens.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestLogin(t *testing.T) {
	svc, st := newTestAuthService(t)
	seedAdmin(t, st, "boss", "correct-horse")
	ctx := context.Background()

	admin, token, err := svc.Login(ctx, "boss", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("expected non-empty session token")
	}
	if admin.Username != "boss" {
		t.Errorf("got username %q, want %q", admin.Username, "boss")
	}

	p, err := svc.Sessions().Verify(token)
	if err != nil {
		t.Fatalf("Verify issued token: %v", err)
	}
	if p.AdminID != admin.ID {
		t.Errorf("token admin ID %q, want %q", p.AdminID, admin.ID)
	}
}

func TestLogin_SameErrorForUnknownUserAndWrongPassword(t *testing.T) {
	svc, st := newTestAuthService(t)
	seedAdmin(t, st, "boss", "correct-horse")
	ctx := context.Background()

	_, _, errWrongPw := svc.Login(ctx, "boss", "wrong")
	_, _, errUnknown := svc.Login(ctx, "nobody", "wrong")

	if !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", errWrongPw)
	}
	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v", errUnknown)
	}
}

func TestChangePassword(t *testing.T) {
	svc, st := newTestAuthService(t)
	seedAdmin(t, st, "boss", "oldpass")
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, "boss", "wrongpass", "newpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	// Old password still works after the failed attempt.
	if _, _, err := svc.Login(ctx, "boss", "oldpass"); err != nil {
		t.Fatalf("old password no longer works: %v", err)
	}

	if err := svc.ChangePassword(ctx, "boss", "oldpass", "newpass"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, _, err := svc.Login(ctx, "boss", "oldpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password accepted after change: %v", err)
	}
	if _, _, err := svc.Login(ctx, "boss", "newpass"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestForgotResetPasswordFlow(t *testing.T) {
	svc, st := newTestAuthService(t)
	seedAdmin(t, st, "boss", "oldpass")
	ctx := context.Background()

	token, err := svc.ForgotPassword(ctx, "boss")
	if err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty reset token")
	}

	if err := svc.ResetPassword(ctx, token, "freshpass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, _, err := svc.Login(ctx, "boss", "freshpass"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
	if _, _, err := svc.Login(ctx, "boss", "oldpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password accepted after reset: %v", err)
	}

	// The token was consumed; a replay must fail.
	if err := svc.ResetPassword(ctx, token, "anotherpass"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound on replay, got %v", err)
	}
}

func TestForgotPassword_UnknownUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)

	token, err := svc.ForgotPassword(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if token != "" {
		t.Errorf("expected empty token for unknown username, got %q", token)
	}
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	svc, st := newTestAuthService(t)
	seedAdmin(t, st, "boss", "oldpass")
	ctx := context.Background()

	if err := st.SetResetToken(ctx, "boss", "stale-token", time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("SetResetToken: %v", err)
	}

	if err := svc.ResetPassword(ctx, "stale-token", "freshpass"); !errors.Is(err, ErrResetTokenExpired) {
		t.Errorf("expected ErrResetTokenExpired, got %v", err)
	}
	// Password unchanged.
	if _, _, err := svc.Login(ctx, "boss", "oldpass"); err != nil {
		t.Errorf("old password rejected after failed reset: %v", err)
	}
}

func TestResetTokenExpiry_Boundary(t *testing.T) {
	expiry := time.Now().UTC()

	if resetTokenExpired(&expiry, expiry.Add(-time.Nanosecond)) {
		t.Error("token expired before its expiry instant")
	}
	if resetTokenExpired(&expiry, expiry) {
		t.Error("token must still be redeemable at the expiry instant")
	}
	if !resetTokenExpired(&expiry, expiry.Add(time.Nanosecond)) {
		t.Error("token must be expired strictly after the expiry instant")
	}
	if !resetTokenExpired(nil, expiry) {
		t.Error("nil expiry must count as expired")
	}
}

func TestResetPassword_UnknownToken(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if err := svc.ResetPassword(context.Background(), "no-such-token", "freshpass"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestEnsureDefaultAdmin_Idempotent(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	created, err := svc.EnsureDefaultAdmin(ctx)
	if err != nil {
		t.Fatalf("EnsureDefaultAdmin: %v", err)
	}
	if !created {
		t.Error("expected created=true on first call")
	}

	created, err = svc.EnsureDefaultAdmin(ctx)
	if err != nil {
		t.Fatalf("EnsureDefaultAdmin second call: %v", err)
	}
	if created {
		t.Error("expected created=false on second call")
	}

	if _, _, err := svc.Login(ctx, DefaultAdminUsername, DefaultAdminPassword); err != nil {
		t.Errorf("default credentials rejected: %v", err)
	}
}
