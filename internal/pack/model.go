package pack

import (
	"time"

	"github.com/ekdma/pt-trainer-log-sub001/internal/clock"
	"github.com/ekdma/pt-trainer-log-sub001/internal/session"
)

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Package is one purchased quota grant: per-type session counts valid over
// an inclusive date window, serviced by one trainer.
type Package struct {
	ID         int       `db:"id" json:"id"`
	MemberID   int       `db:"member_id" json:"member_id"`
	TrainerID  int       `db:"trainer_id" json:"trainer_id"`
	PTCount    int       `db:"pt_count" json:"pt_count"`
	GroupCount int       `db:"group_count" json:"group_count"`
	SelfCount  int       `db:"self_count" json:"self_count"`
	PriceCents int64     `db:"price_cents" json:"price_cents"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
	Status     Status    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Count returns the purchased count for the session type. Zero means the
// type is not offered under this package.
func (p *Package) Count(t session.Type) int {
	switch t {
	case session.TypePT:
		return p.PTCount
	case session.TypeGroup:
		return p.GroupCount
	case session.TypeSelf:
		return p.SelfCount
	}
	return 0
}

// Covers reports whether the day falls inside the package window.
func (p *Package) Covers(day time.Time) bool {
	return clock.SameOrBetween(day, p.StartDate, p.EndDate)
}

// Fields carries the mutable attributes for insert/update/re-register.
type Fields struct {
	TrainerID  int       `json:"trainer_id"`
	PTCount    int       `json:"pt_count"`
	GroupCount int       `json:"group_count"`
	SelfCount  int       `json:"self_count"`
	PriceCents int64     `json:"price_cents"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}
