package health

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ekdma/pt-trainer-log-sub001/internal/clock"
)

var ErrRecordNotFound = errors.New("health record not found")

type Repository interface {
	Insert(ctx context.Context, memberID int, measuredOn time.Time, weightKg, bodyFatPct, muscleKg *float64) (*Record, error)
	// ListByMemberAndRange is ordered by measurement date for graphing.
	ListByMemberAndRange(ctx context.Context, memberID int, from, to time.Time) ([]Record, error)
	Delete(ctx context.Context, id, memberID int) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, memberID int, measuredOn time.Time, weightKg, bodyFatPct, muscleKg *float64) (*Record, error) {
	query := `
		INSERT INTO health_records (member_id, measured_on, weight_kg, body_fat_pct, muscle_kg)
		VALUES ($1, $2::date, $3, $4, $5)
		RETURNING id, member_id, measured_on, weight_kg, body_fat_pct, muscle_kg, created_at
	`

	var rec Record
	err := r.db.GetContext(ctx, &rec, query, memberID, clock.FormatDay(measuredOn), weightKg, bodyFatPct, muscleKg)
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *repository) ListByMemberAndRange(ctx context.Context, memberID int, from, to time.Time) ([]Record, error) {
	query := `
		SELECT id, member_id, measured_on, weight_kg, body_fat_pct, muscle_kg, created_at
		FROM health_records
		WHERE member_id = $1 AND measured_on BETWEEN $2::date AND $3::date
		ORDER BY measured_on
	`

	var records []Record
	err := r.db.SelectContext(ctx, &records, query, memberID, clock.FormatDay(from), clock.FormatDay(to))
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *repository) Delete(ctx context.Context, id, memberID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM health_records WHERE id = $1 AND member_id = $2`, id, memberID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
