package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bigdeal/bigdeal/internal/model"
)

// CreateAdmin inserts a new admin account. The ID and CreatedAt fields on
// admin are populated after a successful insert.
func (s *Store) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	admin.ID = uuid.NewString()
	admin.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO admins (id, username, password_hash, reset_token, reset_token_expiry, created_at)
		VALUES (:id, :username, :password_hash, :reset_token, :reset_token_expiry, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, q, admin); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

// GetAdminByUsername returns an admin by its unique username.
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	q := s.db.Rebind("SELECT * FROM admins WHERE username = ?")
	if err := s.db.GetContext(ctx, &admin, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by username: %w", err)
	}
	return &admin, nil
}

// GetAdminByResetToken returns the admin currently holding the given reset
// token. At most one admin can hold a token at a time.
func (s *Store) GetAdminByResetToken(ctx context.Context, token string) (*model.Admin, error) {
	var admin model.Admin
	q := s.db.Rebind("SELECT * FROM admins WHERE reset_token = ?")
	if err := s.db.GetContext(ctx, &admin, q, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by reset token: %w", err)
	}
	return &admin, nil
}

// ListAdmins returns all admin accounts.
func (s *Store) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	var admins []model.Admin
	if err := s.db.SelectContext(ctx, &admins, "SELECT * FROM admins ORDER BY username"); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// UpdateAdminPassword replaces the stored password hash for a username.
func (s *Store) UpdateAdminPassword(ctx context.Context, username, passwordHash string) error {
	q := s.db.Rebind("UPDATE admins SET password_hash = ? WHERE username = ?")
	result, err := s.db.ExecContext(ctx, q, passwordHash, username)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update admin password rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResetToken attaches a pending reset token and its expiry to an admin,
// overwriting any previously issued token. Only one reset can be
// outstanding per account.
func (s *Store) SetResetToken(ctx context.Context, username, token string, expiry time.Time) error {
	q := s.db.Rebind("UPDATE admins SET reset_token = ?, reset_token_expiry = ? WHERE username = ?")
	result, err := s.db.ExecContext(ctx, q, token, expiry, username)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set reset token rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RedeemResetToken sets a new password hash and clears the reset token
// fields in a single conditional update. The WHERE clause matches the token
// itself, so of two concurrent redemptions at most one sees an affected
// row; the loser gets ErrNotFound because the token was already cleared.
func (s *Store) RedeemResetToken(ctx context.Context, token, passwordHash string) error {
	q := s.db.Rebind(`UPDATE admins
		SET password_hash = ?, reset_token = NULL, reset_token_expiry = NULL
		WHERE reset_token = ?`)
	result, err := s.db.ExecContext(ctx, q, passwordHash, token)
	if err != nil {
		return fmt.Errorf("redeem reset token: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("redeem reset token rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
