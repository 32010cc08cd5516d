package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bigdeal/bigdeal/internal/model"
)

// CreateContactSubmission inserts a new contact submission. The ID and
// CreatedAt fields are populated after a successful insert.
func (s *Store) CreateContactSubmission(ctx context.Context, sub *model.ContactSubmission) error {
	sub.ID = uuid.NewString()
	sub.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO contact_submissions (id, name, phone, email, message, created_at)
		VALUES (:id, :name, :phone, :email, :message, :created_at)`

	if _, err := s.db.NamedExecContext(ctx, q, sub); err != nil {
		return fmt.Errorf("insert contact submission: %w", err)
	}
	return nil
}

// ListContactSubmissions returns all submissions, newest first.
func (s *Store) ListContactSubmissions(ctx context.Context) ([]model.ContactSubmission, error) {
	var subs []model.ContactSubmission
	if err := s.db.SelectContext(ctx, &subs, "SELECT * FROM contact_submissions ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	return subs, nil
}
