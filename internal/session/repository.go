package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ekdma/pt-trainer-log-sub001/internal/clock"
)

var ErrStaleStatus = errors.New("session not found or status already changed")

const sessionColumns = `id, trainer_id, member_id, workout_date, slot_hour, type, status, cancel_note, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, trainerID, memberID int, date time.Time, hour int, typ Type) (*Session, error) {
	query := `
		INSERT INTO sessions (trainer_id, member_id, workout_date, slot_hour, type, status)
		VALUES ($1, $2, $3::date, $4, $5, 'requested')
		RETURNING ` + sessionColumns

	var s Session
	err := r.db.GetContext(ctx, &s, query, trainerID, memberID, clock.FormatDay(date), hour, typ)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	var s Session
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) ListByTrainerAndDate(ctx context.Context, trainerID int, date time.Time) ([]Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE trainer_id = $1 AND workout_date = $2::date
		ORDER BY slot_hour, created_at
	`

	var sessions []Session
	err := r.db.SelectContext(ctx, &sessions, query, trainerID, clock.FormatDay(date))
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *repository) ListByTrainerAndRange(ctx context.Context, trainerID int, from, to time.Time) ([]Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE trainer_id = $1 AND workout_date BETWEEN $2::date AND $3::date
		ORDER BY workout_date, slot_hour
	`

	var sessions []Session
	err := r.db.SelectContext(ctx, &sessions, query, trainerID, clock.FormatDay(from), clock.FormatDay(to))
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *repository) ListByMemberAndRange(ctx context.Context, memberID int, from, to time.Time) ([]Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE member_id = $1 AND workout_date BETWEEN $2::date AND $3::date
		ORDER BY workout_date, slot_hour
	`

	var sessions []Session
	err := r.db.SelectContext(ctx, &sessions, query, memberID, clock.FormatDay(from), clock.FormatDay(to))
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *repository) ListForQuota(ctx context.Context, memberID, trainerID int, typ Type, from, to time.Time) ([]Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE member_id = $1
		  AND trainer_id = $2
		  AND type = $3
		  AND workout_date BETWEEN $4::date AND $5::date
		ORDER BY workout_date, slot_hour
	`

	var sessions []Session
	err := r.db.SelectContext(ctx, &sessions, query, memberID, trainerID, typ, clock.FormatDay(from), clock.FormatDay(to))
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *repository) ConfirmedHours(ctx context.Context, trainerID int, date time.Time, excludeID int) (map[int]bool, error) {
	query := `
		SELECT slot_hour
		FROM sessions
		WHERE trainer_id = $1 AND workout_date = $2::date AND status = 'confirmed' AND id <> $3
	`

	var hours []int
	err := r.db.SelectContext(ctx, &hours, query, trainerID, clock.FormatDay(date), excludeID)
	if err != nil {
		return nil, err
	}

	taken := make(map[int]bool, len(hours))
	for _, h := range hours {
		taken[h] = true
	}

	return taken, nil
}

func (r *repository) FindConfirmedAtSlot(ctx context.Context, trainerID int, date time.Time, hour, excludeID int) (*Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE trainer_id = $1
		  AND workout_date = $2::date
		  AND slot_hour = $3
		  AND status = 'confirmed'
		  AND id <> $4
		LIMIT 1
	`

	var s Session
	err := r.db.GetContext(ctx, &s, query, trainerID, clock.FormatDay(date), hour, excludeID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, from []Status, to Status, note *string) (*Session, error) {
	query := `
		UPDATE sessions
		SET status = $2, cancel_note = COALESCE($3, cancel_note), updated_at = NOW()
		WHERE id = $1 AND status = ANY($4)
		RETURNING ` + sessionColumns

	states := make([]string, len(from))
	for i, st := range from {
		states[i] = string(st)
	}

	var s Session
	err := r.db.GetContext(ctx, &s, query, id, to, note, pq.Array(states))
	if err == sql.ErrNoRows {
		return nil, ErrStaleStatus
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}
