package diary

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ekdma/pt-trainer-log-sub001/internal/clock"
)

var ErrEntryNotFound = errors.New("diary entry not found")

type Repository interface {
	Insert(ctx context.Context, memberID int, date time.Time, meal Meal, content string) (*Entry, error)
	ListByMemberAndRange(ctx context.Context, memberID int, from, to time.Time) ([]Entry, error)
	Delete(ctx context.Context, id, memberID int) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, memberID int, date time.Time, meal Meal, content string) (*Entry, error) {
	query := `
		INSERT INTO diary_entries (member_id, entry_date, meal, content)
		VALUES ($1, $2::date, $3, $4)
		RETURNING id, member_id, entry_date, meal, content, created_at
	`

	var e Entry
	err := r.db.GetContext(ctx, &e, query, memberID, clock.FormatDay(date), meal, content)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

func (r *repository) ListByMemberAndRange(ctx context.Context, memberID int, from, to time.Time) ([]Entry, error) {
	query := `
		SELECT id, member_id, entry_date, meal, content, created_at
		FROM diary_entries
		WHERE member_id = $1 AND entry_date BETWEEN $2::date AND $3::date
		ORDER BY entry_date, created_at
	`

	var entries []Entry
	err := r.db.SelectContext(ctx, &entries, query, memberID, clock.FormatDay(from), clock.FormatDay(to))
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Delete removes an entry only if it belongs to the member.
func (r *repository) Delete(ctx context.Context, id, memberID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM diary_entries WHERE id = $1 AND member_id = $2`, id, memberID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}
