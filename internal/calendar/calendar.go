// Package calendar derives display decorations from the sessions on a day.
package calendar

import (
	"github.com/ekdma/pt-trainer-log-sub001/internal/clock"
	"github.com/ekdma/pt-trainer-log-sub001/internal/session"
)

type Decoration string

const (
	DecorationNone          Decoration = ""
	DecorationPending       Decoration = "pending"
	DecorationConfirmedPT   Decoration = "confirmed-pt"
	DecorationConfirmedSelf Decoration = "confirmed-self"
)

// DecorateDay maps the sessions of a single day to its calendar decoration.
// The precedence is an ordered cascade, not a union:
//  1. any requested session  -> pending
//  2. any confirmed PT       -> confirmed-pt
//  3. everything cancelled   -> none
//  4. all remaining non-cancelled sessions confirmed SELF -> confirmed-self
//  5. otherwise              -> none
func DecorateDay(sessions []session.Session) Decoration {
	if len(sessions) == 0 {
		return DecorationNone
	}

	for _, s := range sessions {
		if s.Status == session.StatusRequested {
			return DecorationPending
		}
	}

	for _, s := range sessions {
		if s.Status == session.StatusConfirmed && s.Type == session.TypePT {
			return DecorationConfirmedPT
		}
	}

	allCancelled := true
	allSelfConfirmed := true
	for _, s := range sessions {
		if s.Status == session.StatusCancelled {
			continue
		}
		allCancelled = false
		if s.Status != session.StatusConfirmed || s.Type != session.TypeSelf {
			allSelfConfirmed = false
		}
	}

	if allCancelled {
		return DecorationNone
	}
	if allSelfConfirmed {
		return DecorationConfirmedSelf
	}

	return DecorationNone
}

// Decorate groups sessions by workout day and keeps only decorated days.
// Keys are YYYY-MM-DD strings.
func Decorate(sessions []session.Session) map[string]Decoration {
	byDay := make(map[string][]session.Session)
	for _, s := range sessions {
		key := clock.FormatDay(s.WorkoutDate)
		byDay[key] = append(byDay[key], s)
	}

	out := make(map[string]Decoration, len(byDay))
	for day, group := range byDay {
		if d := DecorateDay(group); d != DecorationNone {
			out[day] = d
		}
	}

	return out
}
