package pack

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ekdma/pt-trainer-log-sub001/internal/clock"
)

var ErrPackageNotFound = errors.New("package not found")

const packageColumns = `id, member_id, trainer_id, pt_count, group_count, self_count, price_cents, start_date, end_date, status, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindActiveForDate(ctx context.Context, memberID int, date time.Time) (*Package, error) {
	query := `
		SELECT ` + packageColumns + `
		FROM packages
		WHERE member_id = $1
		  AND status = 'active'
		  AND start_date <= $2::date
		  AND end_date >= $2::date
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var p Package
	err := r.db.GetContext(ctx, &p, query, memberID, clock.FormatDay(date))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`

	var p Package
	err := r.db.GetContext(ctx, &p, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID int) ([]Package, error) {
	query := `
		SELECT ` + packageColumns + `
		FROM packages
		WHERE member_id = $1
		ORDER BY created_at DESC
	`

	var packages []Package
	err := r.db.SelectContext(ctx, &packages, query, memberID)
	if err != nil {
		return nil, err
	}

	return packages, nil
}

const insertQuery = `
	INSERT INTO packages (member_id, trainer_id, pt_count, group_count, self_count, price_cents, start_date, end_date, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8::date, 'active')
	RETURNING ` + packageColumns

func (r *repository) Insert(ctx context.Context, memberID int, f Fields) (*Package, error) {
	var p Package
	err := r.db.GetContext(ctx, &p, insertQuery,
		memberID, f.TrainerID, f.PTCount, f.GroupCount, f.SelfCount, f.PriceCents,
		clock.FormatDay(f.StartDate), clock.FormatDay(f.EndDate))
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) Update(ctx context.Context, id int, f Fields) (*Package, error) {
	query := `
		UPDATE packages
		SET trainer_id = $2, pt_count = $3, group_count = $4, self_count = $5,
		    price_cents = $6, start_date = $7::date, end_date = $8::date, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + packageColumns

	var p Package
	err := r.db.GetContext(ctx, &p, query,
		id, f.TrainerID, f.PTCount, f.GroupCount, f.SelfCount, f.PriceCents,
		clock.FormatDay(f.StartDate), clock.FormatDay(f.EndDate))
	if err == sql.ErrNoRows {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

const closeActiveQuery = `
	UPDATE packages
	SET status = 'closed', updated_at = NOW()
	WHERE member_id = $1 AND status = 'active'
`

func (r *repository) CloseActive(ctx context.Context, memberID int) error {
	_, err := r.db.ExecContext(ctx, closeActiveQuery, memberID)
	return err
}

func (r *repository) Reregister(ctx context.Context, memberID int, f Fields) (*Package, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, closeActiveQuery, memberID); err != nil {
		return nil, err
	}

	var p Package
	err = tx.GetContext(ctx, &p, insertQuery,
		memberID, f.TrainerID, f.PTCount, f.GroupCount, f.SelfCount, f.PriceCents,
		clock.FormatDay(f.StartDate), clock.FormatDay(f.EndDate))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &p, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrPackageNotFound
	}

	return nil
}
