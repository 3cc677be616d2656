package member

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrMemberNotFound = errors.New("member not found")

const memberColumns = `user_id, trainer_id, name, phone, birth_date, memo, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, userID int, req UpsertRequest) (*Member, error) {
	query := `
		INSERT INTO members (user_id, trainer_id, name, phone, birth_date, memo)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET trainer_id = EXCLUDED.trainer_id, name = EXCLUDED.name, phone = EXCLUDED.phone,
		    birth_date = EXCLUDED.birth_date, memo = EXCLUDED.memo, updated_at = NOW()
		RETURNING ` + memberColumns

	var m Member
	err := r.db.GetContext(ctx, &m, query, userID, req.TrainerID, req.Name, req.Phone, req.BirthDate, req.Memo)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID int) (*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE user_id = $1`

	var m Member
	err := r.db.GetContext(ctx, &m, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) ListByTrainer(ctx context.Context, trainerID int) ([]Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE trainer_id = $1
		ORDER BY name
	`

	var members []Member
	err := r.db.SelectContext(ctx, &members, query, trainerID)
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (r *repository) Delete(ctx context.Context, userID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}
