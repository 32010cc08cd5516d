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

// CreateGameResult inserts a new result. The ID, CreatedAt, and UpdatedAt
// fields are populated after a successful insert.
func (s *Store) CreateGameResult(ctx context.Context, res *model.GameResult) error {
	now := time.Now().UTC()
	res.ID = uuid.NewString()
	res.CreatedAt = now
	res.UpdatedAt = now

	const q = `INSERT INTO game_results (id, date, time, number, bottom_number, created_at, updated_at)
		VALUES (:id, :date, :time, :number, :bottom_number, :created_at, :updated_at)`

	if _, err := s.db.NamedExecContext(ctx, q, res); err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}
	return nil
}

// GetGameResult returns a result by ID.
func (s *Store) GetGameResult(ctx context.Context, id string) (*model.GameResult, error) {
	var res model.GameResult
	q := s.db.Rebind("SELECT * FROM game_results WHERE id = ?")
	if err := s.db.GetContext(ctx, &res, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get game result: %w", err)
	}
	return &res, nil
}

// UpdateGameResult applies the non-nil fields of upd to a result and
// refreshes UpdatedAt. The updated record is returned.
func (s *Store) UpdateGameResult(ctx context.Context, id string, upd model.GameResultUpdate) (*model.GameResult, error) {
	res, err := s.GetGameResult(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Date != nil {
		res.Date = *upd.Date
	}
	if upd.Time != nil {
		res.Time = *upd.Time
	}
	if upd.Number != nil {
		res.Number = *upd.Number
	}
	if upd.BottomNumber != nil {
		res.BottomNumber = upd.BottomNumber
	}
	res.UpdatedAt = time.Now().UTC()

	const q = `UPDATE game_results SET
		date = :date, time = :time, number = :number, bottom_number = :bottom_number, updated_at = :updated_at
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, q, res)
	if err != nil {
		return nil, fmt.Errorf("update game result: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update game result rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return res, nil
}

// DeleteGameResult removes a result by ID.
func (s *Store) DeleteGameResult(ctx context.Context, id string) error {
	q := s.db.Rebind("DELETE FROM game_results WHERE id = ?")
	result, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete game result: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete game result rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetResultsByDate returns all results published for a date, oldest first.
func (s *Store) GetResultsByDate(ctx context.Context, date string) ([]model.GameResult, error) {
	var results []model.GameResult
	q := s.db.Rebind("SELECT * FROM game_results WHERE date = ? ORDER BY created_at")
	if err := s.db.SelectContext(ctx, &results, q, date); err != nil {
		return nil, fmt.Errorf("get results by date: %w", err)
	}
	return results, nil
}

// ListGameResults returns the most recently published results, newest first.
func (s *Store) ListGameResults(ctx context.Context, limit int) ([]model.GameResult, error) {
	var results []model.GameResult
	q := s.db.Rebind("SELECT * FROM game_results ORDER BY created_at DESC LIMIT ?")
	if err := s.db.SelectContext(ctx, &results, q, limit); err != nil {
		return nil, fmt.Errorf("list game results: %w", err)
	}
	return results, nil
}
