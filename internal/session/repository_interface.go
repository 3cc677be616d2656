package session

import (
	"context"
	"time"
)

type Repository interface {
	// Insert creates a new session. Status always starts as requested.
	Insert(ctx context.Context, trainerID, memberID int, date time.Time, hour int, typ Type) (*Session, error)
	GetByID(ctx context.Context, id int) (*Session, error)
	ListByTrainerAndDate(ctx context.Context, trainerID int, date time.Time) ([]Session, error)
	ListByTrainerAndRange(ctx context.Context, trainerID int, from, to time.Time) ([]Session, error)
	ListByMemberAndRange(ctx context.Context, memberID int, from, to time.Time) ([]Session, error)
	// ListForQuota returns every session (any status) for the member, trainer
	// and type with workout date inside [from, to].
	ListForQuota(ctx context.Context, memberID, trainerID int, typ Type, from, to time.Time) ([]Session, error)
	// ConfirmedHours returns the set of hours already confirmed on the
	// trainer's day, excluding the given session id (0 excludes nothing).
	ConfirmedHours(ctx context.Context, trainerID int, date time.Time, excludeID int) (map[int]bool, error)
	// FindConfirmedAtSlot returns the confirmed session occupying the slot,
	// or nil when the slot is free. excludeID works as in ConfirmedHours.
	FindConfirmedAtSlot(ctx context.Context, trainerID int, date time.Time, hour, excludeID int) (*Session, error)
	// UpdateStatus moves the session to the target status only if its current
	// status is one of from; returns ErrStaleStatus otherwise. The guard is
	// the write-time re-validation against concurrent transitions.
	UpdateStatus(ctx context.Context, id int, from []Status, to Status, note *string) (*Session, error)
}
