package session

import (
	"time"

	"github.com/ekdma/pt-trainer-log-sub001/internal/clock"
)

type Status string

const (
	StatusRequested Status = "requested"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusRequested, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

type Type string

const (
	TypePT    Type = "PT"
	TypeGroup Type = "GROUP"
	TypeSelf  Type = "SELF"
)

func (t Type) Valid() bool {
	switch t {
	case TypePT, TypeGroup, TypeSelf:
		return true
	}
	return false
}

// Session is one bookable calendar entry: an hour slot on a trainer's day.
type Session struct {
	ID          int       `db:"id" json:"id"`
	TrainerID   int       `db:"trainer_id" json:"trainer_id"`
	MemberID    int       `db:"member_id" json:"member_id"`
	WorkoutDate time.Time `db:"workout_date" json:"workout_date"`
	SlotHour    int       `db:"slot_hour" json:"slot_hour"`
	Type        Type      `db:"type" json:"type"`
	Status      Status    `db:"status" json:"status"`
	CancelNote  *string   `db:"cancel_note" json:"cancel_note,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// StartsAt is the wall-clock start of the slot in the business zone.
func (s *Session) StartsAt() time.Time {
	return clock.SlotStart(s.WorkoutDate, s.SlotHour)
}

// SlotTime renders the slot as "HH:00" for display and notifications.
func (s *Session) SlotTime() string {
	return clock.SlotStart(s.WorkoutDate, s.SlotHour).Format("15:04")
}
