package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ekdma/pt-trainer-log-sub001/internal/clock"
	"github.com/ekdma/pt-trainer-log-sub001/internal/logger"
	"github.com/ekdma/pt-trainer-log-sub001/internal/member"
	"github.com/ekdma/pt-trainer-log-sub001/internal/metrics"
	"github.com/ekdma/pt-trainer-log-sub001/internal/notify"
	"github.com/ekdma/pt-trainer-log-sub001/internal/pack"
	"github.com/ekdma/pt-trainer-log-sub001/internal/quota"
	"github.com/ekdma/pt-trainer-log-sub001/internal/session"
)

// CancellationWindow is how far ahead of the slot start a member may still
// cancel. Trainer-initiated cancellation is not subject to it.
const CancellationWindow = 24 * time.Hour

// Initiator identifies who is acting; the core is stateless and takes
// identity as an explicit parameter.
type Initiator string

const (
	InitiatorMember  Initiator = "member"
	InitiatorTrainer Initiator = "trainer"
)

type Service interface {
	// Request creates a session in requested status after package, quota and
	// slot checks.
	Request(ctx context.Context, memberID, trainerID int, date time.Time, hour int, typ session.Type) (*session.Session, error)
	// Confirm moves a requested session to confirmed, re-checking the slot.
	Confirm(ctx context.Context, sessionID int) (*session.Session, error)
	// Cancel moves a requested or confirmed session to cancelled. Member
	// cancellation respects the window and must carry a reason.
	Cancel(ctx context.Context, sessionID int, by Initiator, reason string) (*session.Session, error)
	// Reject is a trainer declining a requested session.
	Reject(ctx context.Context, sessionID int) (*session.Session, error)
	// Remaining is the allowance snapshot for the type on the given date.
	Remaining(ctx context.Context, memberID, trainerID int, typ session.Type, date time.Time) (quota.Snapshot, error)
}

type service struct {
	sessions session.Repository
	packs    pack.Repository
	members  member.Repository
	notifier notify.Dispatcher
	clk      clock.Clock
}

func NewService(sessions session.Repository, packs pack.Repository, members member.Repository, notifier notify.Dispatcher, clk clock.Clock) Service {
	return &service{
		sessions: sessions,
		packs:    packs,
		members:  members,
		notifier: notifier,
		clk:      clk,
	}
}

func (s *service) Request(ctx context.Context, memberID, trainerID int, date time.Time, hour int, typ session.Type) (*session.Session, error) {
	pkg, err := s.packs.FindActiveForDate(ctx, memberID, date)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		metrics.SessionRequestsTotal.WithLabelValues(string(typ), "no_package").Inc()
		return nil, ErrNoActivePackage
	}

	window, err := s.sessions.ListForQuota(ctx, memberID, trainerID, typ, pkg.StartDate, pkg.EndDate)
	if err != nil {
		return nil, err
	}

	snap := quota.Compute(memberID, trainerID, typ, pkg.Count(typ), pkg.StartDate, pkg.EndDate, window)
	if snap.Exhausted() {
		metrics.SessionRequestsTotal.WithLabelValues(string(typ), "quota_exceeded").Inc()
		return nil, ErrQuotaExceeded
	}

	// A member may re-request a slot already confirmed for themselves
	// (editing flow), but never one confirmed for someone else.
	occupied, err := s.sessions.FindConfirmedAtSlot(ctx, trainerID, date, hour, 0)
	if err != nil {
		return nil, err
	}
	if occupied != nil && occupied.MemberID != memberID {
		metrics.SessionRequestsTotal.WithLabelValues(string(typ), "slot_taken").Inc()
		return nil, ErrSlotTaken
	}

	created, err := s.sessions.Insert(ctx, trainerID, memberID, date, hour, typ)
	if err != nil {
		return nil, err
	}

	metrics.SessionRequestsTotal.WithLabelValues(string(typ), "accepted").Inc()
	return created, nil
}

func (s *service) Confirm(ctx context.Context, sessionID int) (*session.Session, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if sess.Status != session.StatusRequested {
		return nil, ErrInvalidTransition
	}

	// Race protection: the slot may have been confirmed for another request
	// since this one was made.
	occupied, err := s.sessions.FindConfirmedAtSlot(ctx, sess.TrainerID, sess.WorkoutDate, sess.SlotHour, sess.ID)
	if err != nil {
		return nil, err
	}
	if occupied != nil {
		return nil, ErrSlotTaken
	}

	updated, err := s.sessions.UpdateStatus(ctx, sessionID, []session.Status{session.StatusRequested}, session.StatusConfirmed, nil)
	if err != nil {
		if errors.Is(err, session.ErrStaleStatus) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	metrics.SessionTransitionsTotal.WithLabelValues(string(session.StatusConfirmed)).Inc()
	s.sendNotification(ctx, updated, notify.TemplateReservationConfirmed, "")

	return updated, nil
}

func (s *service) Cancel(ctx context.Context, sessionID int, by Initiator, reason string) (*session.Session, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if sess.Status != session.StatusRequested && sess.Status != session.StatusConfirmed {
		return nil, ErrInvalidTransition
	}

	if by == InitiatorMember {
		if !sess.StartsAt().After(s.clk.Now().Add(CancellationWindow)) {
			return nil, ErrWindowClosed
		}
		if reason == "" {
			return nil, ErrReasonRequired
		}
	}

	var note *string
	if reason != "" {
		note = &reason
	}

	updated, err := s.sessions.UpdateStatus(ctx, sessionID,
		[]session.Status{session.StatusRequested, session.StatusConfirmed},
		session.StatusCancelled, note)
	if err != nil {
		if errors.Is(err, session.ErrStaleStatus) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	metrics.SessionTransitionsTotal.WithLabelValues(string(session.StatusCancelled)).Inc()
	s.sendNotification(ctx, updated, notify.TemplateReservationCancelled, reason)

	return updated, nil
}

func (s *service) Reject(ctx context.Context, sessionID int) (*session.Session, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if sess.Status != session.StatusRequested {
		return nil, ErrInvalidTransition
	}

	updated, err := s.sessions.UpdateStatus(ctx, sessionID,
		[]session.Status{session.StatusRequested}, session.StatusCancelled, nil)
	if err != nil {
		if errors.Is(err, session.ErrStaleStatus) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	metrics.SessionTransitionsTotal.WithLabelValues(string(session.StatusCancelled)).Inc()
	s.sendNotification(ctx, updated, notify.TemplateReservationCancelled, "")

	return updated, nil
}

func (s *service) Remaining(ctx context.Context, memberID, trainerID int, typ session.Type, date time.Time) (quota.Snapshot, error) {
	pkg, err := s.packs.FindActiveForDate(ctx, memberID, date)
	if err != nil {
		return quota.Snapshot{}, err
	}
	if pkg == nil {
		return quota.Snapshot{}, nil
	}

	window, err := s.sessions.ListForQuota(ctx, memberID, trainerID, typ, pkg.StartDate, pkg.EndDate)
	if err != nil {
		return quota.Snapshot{}, err
	}

	return quota.Compute(memberID, trainerID, typ, pkg.Count(typ), pkg.StartDate, pkg.EndDate, window), nil
}

// sendNotification is fire-and-forget: a delivery problem is logged, never
// returned to the booking flow.
func (s *service) sendNotification(ctx context.Context, sess *session.Session, templateID, reason string) {
	m, err := s.members.FindByUserID(ctx, sess.MemberID)
	if err != nil {
		logger.Errorf("No member profile for notification: member=%d err=%v", sess.MemberID, err)
		return
	}

	params := map[string]string{
		"date": clock.FormatDay(sess.WorkoutDate),
		"time": sess.SlotTime(),
		"type": string(sess.Type),
	}
	if templateID == notify.TemplateReservationCancelled {
		params["reason"] = reason
	}

	if err := s.notifier.Send(ctx, m.Phone, templateID, params); err != nil {
		logger.Errorf("Failed to queue notification for session %d: %v", sess.ID, err)
	}
}
