// Package quota computes remaining session allowances. It is pure: callers
// fetch the package and the raw session rows, quota only counts. Counts are
// recomputed from rows on every read rather than maintained incrementally,
// so a cancelled session immediately frees its slot in the tally.
package quota

import (
	"time"

	"github.com/ekdma/pt-trainer-log-sub001/internal/clock"
	"github.com/ekdma/pt-trainer-log-sub001/internal/pack"
	"github.com/ekdma/pt-trainer-log-sub001/internal/session"
)

// Snapshot is the derived allowance for one (member, type, window) triple.
type Snapshot struct {
	// Offered is false when the package carries no purchased count for the
	// type; Used/Total/Remaining are meaningless in that case.
	Offered   bool `json:"offered"`
	Total     int  `json:"total"`
	Used      int  `json:"used"`
	Remaining int  `json:"remaining"`
}

// Exhausted reports whether a new booking of this type must be rejected.
func (s Snapshot) Exhausted() bool {
	return !s.Offered || s.Total-s.Used <= 0
}

// DisplayRemaining never goes negative; the raw Remaining may.
func (s Snapshot) DisplayRemaining() int {
	if s.Remaining < 0 {
		return 0
	}
	return s.Remaining
}

// Compute tallies usage for the member/trainer/type inside the inclusive
// day window. Both requested and confirmed sessions consume quota
// (pessimistic reservation); cancelled sessions do not.
func Compute(memberID, trainerID int, typ session.Type, total int, windowStart, windowEnd time.Time, sessions []session.Session) Snapshot {
	if total <= 0 {
		return Snapshot{Offered: false}
	}

	used := 0
	for _, s := range sessions {
		if s.MemberID != memberID || s.TrainerID != trainerID || s.Type != typ {
			continue
		}
		if s.Status == session.StatusCancelled {
			continue
		}
		if !clock.SameOrBetween(s.WorkoutDate, windowStart, windowEnd) {
			continue
		}
		used++
	}

	return Snapshot{
		Offered:   true,
		Total:     total,
		Used:      used,
		Remaining: total - used,
	}
}

// ForPackage computes the snapshot for a session type under the package.
// A nil package means no active package covers the date: nothing is offered.
func ForPackage(p *pack.Package, typ session.Type, sessions []session.Session) Snapshot {
	if p == nil {
		return Snapshot{Offered: false}
	}
	return Compute(p.MemberID, p.TrainerID, typ, p.Count(typ), p.StartDate, p.EndDate, sessions)
}
