package store

import (
	"context"
	"testing"
	"time"

	"github.com/bigdeal/bigdeal/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", "") // in-memory
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func TestAdminCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	admin := &model.Admin{Username: "boss", PasswordHash: "hash1"}
	if err := s.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if admin.ID == "" {
		t.Fatal("expected non-empty ID after create")
	}

	got, err := s.GetAdminByUsername(ctx, "boss")
	if err != nil {
		t.Fatalf("GetAdminByUsername: %v", err)
	}
	if got.ID != admin.ID {
		t.Errorf("got ID %q, want %q", got.ID, admin.ID)
	}
	if got.PasswordHash != "hash1" {
		t.Errorf("got hash %q, want %q", got.PasswordHash, "hash1")
	}
	if got.ResetToken != nil {
		t.Errorf("expected nil reset token, got %v", *got.ResetToken)
	}

	if _, err := s.GetAdminByUsername(ctx, "nobody"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := s.UpdateAdminPassword(ctx, "boss", "hash2"); err != nil {
		t.Fatalf("UpdateAdminPassword: %v", err)
	}
	got, _ = s.GetAdminByUsername(ctx, "boss")
	if got.PasswordHash != "hash2" {
		t.Errorf("got hash %q, want %q", got.PasswordHash, "hash2")
	}

	if err := s.UpdateAdminPassword(ctx, "nobody", "x"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	admins, err := s.ListAdmins(ctx)
	if err != nil {
		t.Fatalf("ListAdmins: %v", err)
	}
	if len(admins) != 1 {
		t.Errorf("got %d admins, want 1", len(admins))
	}
}

func TestResetTokenLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	admin := &model.Admin{Username: "boss", PasswordHash: "hash1"}
	if err := s.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	expiry := time.Now().UTC().Add(time.Hour)
	if err := s.SetResetToken(ctx, "boss", "tok-a", expiry); err != nil {
		t.Fatalf("SetResetToken: %v", err)
	}

	got, err := s.GetAdminByResetToken(ctx, "tok-a")
	if err != nil {
		t.Fatalf("GetAdminByResetToken: %v", err)
	}
	if got.Username != "boss" {
		t.Errorf("got username %q, want %q", got.Username, "boss")
	}
	if got.ResetTokenExpiry == nil {
		t.Fatal("expected non-nil expiry")
	}

	// A second issuance overwrites the pending token.
	if err := s.SetResetToken(ctx, "boss", "tok-b", expiry); err != nil {
		t.Fatalf("SetResetToken overwrite: %v", err)
	}
	if _, err := s.GetAdminByResetToken(ctx, "tok-a"); err != ErrNotFound {
		t.Errorf("old token should be gone, got %v", err)
	}
	if _, err := s.GetAdminByResetToken(ctx, "tok-b"); err != nil {
		t.Errorf("new token lookup: %v", err)
	}

	if err := s.SetResetToken(ctx, "nobody", "tok-c", expiry); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedeemResetToken_SingleUse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	admin := &model.Admin{Username: "boss", PasswordHash: "hash1"}
	if err := s.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if err := s.SetResetToken(ctx, "boss", "tok", time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("SetResetToken: %v", err)
	}

	if err := s.RedeemResetToken(ctx, "tok", "newhash"); err != nil {
		t.Fatalf("RedeemResetToken: %v", err)
	}

	got, _ := s.GetAdminByUsername(ctx, "boss")
	if got.PasswordHash != "newhash" {
		t.Errorf("got hash %q, want %q", got.PasswordHash, "newhash")
	}
	if got.ResetToken != nil || got.ResetTokenExpiry != nil {
		t.Error("expected token fields cleared after redemption")
	}

	// Replay fails: the conditional update matches no row.
	if err := s.RedeemResetToken(ctx, "tok", "otherhash"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on replay, got %v", err)
	}
	got, _ = s.GetAdminByUsername(ctx, "boss")
	if got.PasswordHash != "newhash" {
		t.Errorf("replay changed hash to %q", got.PasswordHash)
	}
}

func TestGameResultCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	res := &model.GameResult{
		Date:         "15/03/2026",
		Time:         "10:30 AM",
		Number:       "42",
		BottomNumber: strPtr("7"),
	}
	if err := s.CreateGameResult(ctx, res); err != nil {
		t.Fatalf("CreateGameResult: %v", err)
	}
	if res.ID == "" {
		t.Fatal("expected non-empty ID after create")
	}

	got, err := s.GetGameResult(ctx, res.ID)
	if err != nil {
		t.Fatalf("GetGameResult: %v", err)
	}
	if got.Number != "42" {
		t.Errorf("got number %q, want %q", got.Number, "42")
	}
	if got.BottomNumber == nil || *got.BottomNumber != "7" {
		t.Errorf("got bottom number %v, want 7", got.BottomNumber)
	}

	upd := model.GameResultUpdate{Number: strPtr("99")}
	updated, err := s.UpdateGameResult(ctx, res.ID, upd)
	if err != nil {
		t.Fatalf("UpdateGameResult: %v", err)
	}
	if updated.Number != "99" {
		t.Errorf("got number %q, want %q", updated.Number, "99")
	}
	if updated.Time != "10:30 AM" {
		t.Errorf("untouched field changed: time %q", updated.Time)
	}

	if _, err := s.UpdateGameResult(ctx, "missing", upd); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	byDate, err := s.GetResultsByDate(ctx, "15/03/2026")
	if err != nil {
		t.Fatalf("GetResultsByDate: %v", err)
	}
	if len(byDate) != 1 {
		t.Errorf("got %d results, want 1", len(byDate))
	}

	if err := s.DeleteGameResult(ctx, res.ID); err != nil {
		t.Fatalf("DeleteGameResult: %v", err)
	}
	if _, err := s.GetGameResult(ctx, res.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteGameResult(ctx, res.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestListGameResults_Limit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res := &model.GameResult{Date: "01/01/2026", Time: "10:00 AM", Number: "1"}
		if err := s.CreateGameResult(ctx, res); err != nil {
			t.Fatalf("CreateGameResult: %v", err)
		}
	}

	list, err := s.ListGameResults(ctx, 3)
	if err != nil {
		t.Fatalf("ListGameResults: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("got %d results, want 3", len(list))
	}
}

func TestContactSubmissions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sub := &model.ContactSubmission{
		Name:    "Asha",
		Phone:   "9999999999",
		Email:   strPtr("asha@example.com"),
		Message: "When is the next draw?",
	}
	if err := s.CreateContactSubmission(ctx, sub); err != nil {
		t.Fatalf("CreateContactSubmission: %v", err)
	}
	if sub.ID == "" {
		t.Fatal("expected non-empty ID after create")
	}

	// Second submission without an email
	sub2 := &model.ContactSubmission{Name: "Ravi", Phone: "8888888888", Message: "Hi"}
	if err := s.CreateContactSubmission(ctx, sub2); err != nil {
		t.Fatalf("CreateContactSubmission: %v", err)
	}

	list, err := s.ListContactSubmissions(ctx)
	if err != nil {
		t.Fatalf("ListContactSubmissions: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d submissions, want 2", len(list))
	}
}
