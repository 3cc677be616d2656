package booking

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ekdma/pt-trainer-log-sub001/internal/clock"
	"github.com/ekdma/pt-trainer-log-sub001/internal/logger"
	"github.com/ekdma/pt-trainer-log-sub001/internal/member"
	"github.com/ekdma/pt-trainer-log-sub001/internal/pack"
	"github.com/ekdma/pt-trainer-log-sub001/internal/session"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

// Mock repositories
type MockSessionRepo struct{ mock.Mock }
type MockPackRepo struct{ mock.Mock }
type MockMemberRepo struct{ mock.Mock }
type MockDispatcher struct{ mock.Mock }

func (m *MockSessionRepo) Insert(ctx context.Context, trainerID, memberID int, date time.Time, hour int, typ session.Type) (*session.Session, error) {
	args := m.Called(ctx, trainerID, memberID, date, hour, typ)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionRepo) GetByID(ctx context.Context, id int) (*session.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionRepo) ListByTrainerAndDate(ctx context.Context, trainerID int, date time.Time) ([]session.Session, error) {
	args := m.Called(ctx, trainerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]session.Session), args.Error(1)
}

func (m *MockSessionRepo) ListByTrainerAndRange(ctx context.Context, trainerID int, from, to time.Time) ([]session.Session, error) {
	args := m.Called(ctx, trainerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]session.Session), args.Error(1)
}

func (m *MockSessionRepo) ListByMemberAndRange(ctx context.Context, memberID int, from, to time.Time) ([]session.Session, error) {
	args := m.Called(ctx, memberID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]session.Session), args.Error(1)
}

func (m *MockSessionRepo) ListForQuota(ctx context.Context, memberID, trainerID int, typ session.Type, from, to time.Time) ([]session.Session, error) {
	args := m.Called(ctx, memberID, trainerID, typ, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]session.Session), args.Error(1)
}

func (m *MockSessionRepo) ConfirmedHours(ctx context.Context, trainerID int, date time.Time, excludeID int) (map[int]bool, error) {
	args := m.Called(ctx, trainerID, date, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]bool), args.Error(1)
}

func (m *MockSessionRepo) FindConfirmedAtSlot(ctx context.Context, trainerID int, date time.Time, hour, excludeID int) (*session.Session, error) {
	args := m.Called(ctx, trainerID, date, hour, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionRepo) UpdateStatus(ctx context.Context, id int, from []session.Status, to session.Status, note *string) (*session.Session, error) {
	args := m.Called(ctx, id, from, to, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockPackRepo) FindActiveForDate(ctx context.Context, memberID int, date time.Time) (*pack.Package, error) {
	args := m.Called(ctx, memberID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pack.Package), args.Error(1)
}

func (m *MockPackRepo) GetByID(ctx context.Context, id int) (*pack.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pack.Package), args.Error(1)
}

func (m *MockPackRepo) ListByMember(ctx context.Context, memberID int) ([]pack.Package, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pack.Package), args.Error(1)
}

func (m *MockPackRepo) Insert(ctx context.Context, memberID int, f pack.Fields) (*pack.Package, error) {
	args := m.Called(ctx, memberID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pack.Package), args.Error(1)
}

func (m *MockPackRepo) Update(ctx context.Context, id int, f pack.Fields) (*pack.Package, error) {
	args := m.Called(ctx, id, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pack.Package), args.Error(1)
}

func (m *MockPackRepo) CloseActive(ctx context.Context, memberID int) error {
	return m.Called(ctx, memberID).Error(0)
}

func (m *MockPackRepo) Reregister(ctx context.Context, memberID int, f pack.Fields) (*pack.Package, error) {
	args := m.Called(ctx, memberID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pack.Package), args.Error(1)
}

func (m *MockPackRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMemberRepo) Upsert(ctx context.Context, userID int, req member.UpsertRequest) (*member.Member, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepo) FindByUserID(ctx context.Context, userID int) (*member.Member, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepo) ListByTrainer(ctx context.Context, trainerID int) ([]member.Member, error) {
	args := m.Called(ctx, trainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]member.Member), args.Error(1)
}

func (m *MockMemberRepo) Delete(ctx context.Context, userID int) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockDispatcher) Send(ctx context.Context, phone, templateID string, params map[string]string) error {
	return m.Called(ctx, phone, templateID, params).Error(0)
}

func day(s string) time.Time {
	d, err := clock.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	sessions *MockSessionRepo
	packs    *MockPackRepo
	members  *MockMemberRepo
	notifier *MockDispatcher
	svc      Service
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		sessions: new(MockSessionRepo),
		packs:    new(MockPackRepo),
		members:  new(MockMemberRepo),
		notifier: new(MockDispatcher),
	}
	f.svc = NewService(f.sessions, f.packs, f.members, f.notifier, clock.Fixed{T: now})
	return f
}

func (f *fixture) expectMemberProfile(memberID int, phone string) {
	f.members.On("FindByUserID", mock.Anything, memberID).
		Return(&member.Member{UserID: memberID, Phone: phone}, nil)
}

func ptPackage(memberID, trainerID, ptCount int) *pack.Package {
	return &pack.Package{
		ID:        1,
		MemberID:  memberID,
		TrainerID: trainerID,
		PTCount:   ptCount,
		StartDate: day("2024-01-01"),
		EndDate:   day("2024-01-31"),
		Status:    pack.StatusActive,
	}
}

func TestRequest_Success(t *testing.T) {
	f := newFixture(day("2024-01-10"))

	f.packs.On("FindActiveForDate", mock.Anything, 1, mock.Anything).Return(ptPackage(1, 2, 3), nil)
	f.sessions.On("ListForQuota", mock.Anything, 1, 2, session.TypePT, mock.Anything, mock.Anything).
		Return([]session.Session{}, nil)
	f.sessions.On("FindConfirmedAtSlot", mock.Anything, 2, mock.Anything, 10, 0).Return(nil, nil)
	f.sessions.On("Insert", mock.Anything, 2, 1, mock.Anything, 10, session.TypePT).
		Return(&session.Session{ID: 7, Status: session.StatusRequested}, nil)

	created, err := f.svc.Request(context.Background(), 1, 2, day("2024-01-15"), 10, session.TypePT)

	assert.NoError(t, err)
	assert.Equal(t, session.StatusRequested, created.Status)
	f.notifier.AssertNotCalled(t, "Send")
}

func TestRequest_NoActivePackage(t *testing.T) {
	f := newFixture(day("2024-01-10"))

	f.packs.On("FindActiveForDate", mock.Anything, 1, mock.Anything).Return(nil, nil)

	_, err := f.svc.Request(context.Background(), 1, 2, day("2024-01-15"), 10, session.TypePT)

	assert.ErrorIs(t, err, ErrNoActivePackage)
	f.sessions.AssertNotCalled(t, "Insert")
}

func TestRequest_QuotaExhausted(t *testing.T) {
	f := newFixture(day("2024-01-10"))

	used := []session.Session{
		{MemberID: 1, TrainerID: 2, Type: session.TypePT, Status: session.StatusConfirmed, WorkoutDate: day("2024-01-05")},
		{MemberID: 1, TrainerID: 2, Type: session.TypePT, Status: session.StatusConfirmed, WorkoutDate: day("2024-01-07")},
		{MemberID: 1, TrainerID: 2, Type: session.TypePT, Status: session.StatusRequested, WorkoutDate: day("2024-01-09")},
	}

	f.packs.On("FindActiveForDate", mock.Anything, 1, mock.Anything).Return(ptPackage(1, 2, 3), nil)
	f.sessions.On("ListForQuota", mock.Anything, 1, 2, session.TypePT, mock.Anything, mock.Anything).
		Return(used, nil)

	_, err := f.svc.Request(context.Background(), 1, 2, day("2024-01-15"), 10, session.TypePT)

	assert.ErrorIs(t, err, ErrQuotaExceeded)
	f.sessions.AssertNotCalled(t, "Insert")
}

func TestRequest_TypeNotOffered(t *testing.T) {
	f := newFixture(day("2024-01-10"))

	// Package carries no GROUP count.
	f.packs.On("FindActiveForDate", mock.Anything, 1, mock.Anything).Return(ptPackage(1, 2, 3), nil)
	f.sessions.On("ListForQuota", mock.Anything, 1, 2, session.TypeGroup, mock.Anything, mock.Anything).
		Return([]session.Session{}, nil)

	_, err := f.svc.Request(context.Background(), 1, 2, day("2024-01-15"), 10, session.TypeGroup)

	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestRequest_SlotTakenByOtherMember(t *testing.T) {
	f := newFixture(day("2024-01-10"))

	f.packs.On("FindActiveForDate", mock.Anything, 1, mock.Anything).Return(ptPackage(1, 2, 3), nil)
	f.sessions.On("ListForQuota", mock.Anything, 1, 2, session.TypePT, mock.Anything, mock.Anything).
		Return([]session.Session{}, nil)
	f.sessions.On("FindConfirmedAtSlot", mock.Anything, 2, mock.Anything, 10, 0).
		Return(&session.Session{ID: 5, MemberID: 9, Status: session.StatusConfirmed}, nil)

	_, err := f.svc.Request(context.Background(), 1, 2, day("2024-01-15"), 10, session.TypePT)

	assert.ErrorIs(t, err, ErrSlotTaken)
	f.sessions.AssertNotCalled(t, "Insert")
}

func TestRequest_OwnConfirmedSlotAllowed(t *testing.T) {
	f := newFixture(day("2024-01-10"))

	f.packs.On("FindActiveForDate", mock.Anything, 1, mock.Anything).Return(ptPackage(1, 2, 3), nil)
	f.sessions.On("ListForQuota", mock.Anything, 1, 2, session.TypePT, mock.Anything, mock.Anything).
		Return([]session.Session{}, nil)
	f.sessions.On("FindConfirmedAtSlot", mock.Anything, 2, mock.Anything, 10, 0).
		Return(&session.Session{ID: 5, MemberID: 1, Status: session.StatusConfirmed}, nil)
	f.sessions.On("Insert", mock.Anything, 2, 1, mock.Anything, 10, session.TypePT).
		Return(&session.Session{ID: 8, Status: session.StatusRequested}, nil)

	_, err := f.svc.Request(context.Background(), 1, 2, day("2024-01-15"), 10, session.TypePT)

	assert.NoError(t, err)
}

func TestConfirm_SuccessSendsNotification(t *testing.T) {
	f := newFixture(day("2024-01-10"))

	requested := &session.Session{
		ID: 7, TrainerID: 2, MemberID: 1,
		WorkoutDate: day("2024-01-15"), SlotHour: 10,
		Type: session.TypePT, Status: session.StatusRequested,
	}
	confirmed := *requested
	confirmed.Status = session.StatusConfirmed

	f.sessions.On("GetByID", mock.Anything, 7).Return(requested, nil)
	f.sessions.On("FindConfirmedAtSlot", mock.Anything, 2, mock.Anything, 10, 7).Return(nil, nil)
	f.sessions.On("UpdateStatus", mock.Anything, 7,
		[]session.Status{session.StatusRequested}, session.StatusConfirmed, (*string)(nil)).
		Return(&confirmed, nil)
	f.expectMemberProfile(1, "010-1234-5678")
	f.notifier.On("Send", mock.Anything, "010-1234-5678", "reservation-confirmed",
		map[string]string{"date": "2024-01-15", "time": "10:00", "type": "PT"}).Return(nil)

	got, err := f.svc.Confirm(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, session.StatusConfirmed, got.Status)
	f.notifier.AssertExpectations(t)
}

func TestConfirm_SlotAlreadyConfirmed(t *testing.T) {
	f := newFixture(day("2024-01-10"))

	requested := &session.Session{
		ID: 7, TrainerID: 2, MemberID: 1,
		WorkoutDate: day("2024-01-15"), SlotHour: 10,
		Type: session.TypePT, Status: session.StatusRequested,
	}

	f.sessions.On("GetByID", mock.Anything, 7).Return(requested, nil)
	f.sessions.On("FindConfirmedAtSlot", mock.Anything, 2, mock.Anything, 10, 7).
		Return(&session.Session{ID: 9, MemberID: 4, Status: session.StatusConfirmed}, nil)

	_, err := f.svc.Confirm(context.Background(), 7)

	assert.ErrorIs(t, err, ErrSlotTaken)
	f.sessions.AssertNotCalled(t, "UpdateStatus")
}

func TestConfirm_InvalidFromCancelled(t *testing.T) {
	f := newFixture(day("2024-01-10"))

	f.sessions.On("GetByID", mock.Anything, 7).Return(&session.Session{
		ID: 7, Status: session.StatusCancelled,
	}, nil)

	_, err := f.svc.Confirm(context.Background(), 7)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConfirm_NotFound(t *testing.T) {
	f := newFixture(day("2024-01-10"))

	f.sessions.On("GetByID", mock.Anything, 99).Return(nil, sql.ErrNoRows)

	_, err := f.svc.Confirm(context.Background(), 99)

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConfirm_NotificationFailureDoesNotFail(t *testing.T) {
	f := newFixture(day("2024-01-10"))

	requested := &session.Session{
		ID: 7, TrainerID: 2, MemberID: 1,
		WorkoutDate: day("2024-01-15"), SlotHour: 10,
		Type: session.TypePT, Status: session.StatusRequested,
	}
	confirmed := *requested
	confirmed.Status = session.StatusConfirmed

	f.sessions.On("GetByID", mock.Anything, 7).Return(requested, nil)
	f.sessions.On("FindConfirmedAtSlot", mock.Anything, 2, mock.Anything, 10, 7).Return(nil, nil)
	f.sessions.On("UpdateStatus", mock.Anything, 7, mock.Anything, session.StatusConfirmed, (*string)(nil)).
		Return(&confirmed, nil)
	f.expectMemberProfile(1, "010-1234-5678")
	f.notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("gateway down"))

	got, err := f.svc.Confirm(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, session.StatusConfirmed, got.Status)
}

func cancelFixtureSession(status session.Status) *session.Session {
	return &session.Session{
		ID: 7, TrainerID: 2, MemberID: 1,
		WorkoutDate: day("2024-01-15"), SlotHour: 10,
		Type: session.TypePT, Status: status,
	}
}

func TestCancel_MemberInsideWindowRejected(t *testing.T) {
	// Slot starts 2024-01-15 10:00 KST; now is exactly 24h before.
	now := time.Date(2024, 1, 14, 10, 0, 0, 0, clock.Business)
	f := newFixture(now)

	f.sessions.On("GetByID", mock.Anything, 7).Return(cancelFixtureSession(session.StatusConfirmed), nil)

	_, err := f.svc.Cancel(context.Background(), 7, InitiatorMember, "schedule conflict")

	assert.ErrorIs(t, err, ErrWindowClosed)
	f.sessions.AssertNotCalled(t, "UpdateStatus")
}

func TestCancel_MemberJustBeforeWindowAllowed(t *testing.T) {
	// One second earlier than the window boundary.
	now := time.Date(2024, 1, 14, 9, 59, 59, 0, clock.Business)
	f := newFixture(now)

	reason := "schedule conflict"
	cancelled := cancelFixtureSession(session.StatusCancelled)
	cancelled.CancelNote = &reason

	f.sessions.On("GetByID", mock.Anything, 7).Return(cancelFixtureSession(session.StatusConfirmed), nil)
	f.sessions.On("UpdateStatus", mock.Anything, 7,
		[]session.Status{session.StatusRequested, session.StatusConfirmed},
		session.StatusCancelled, &reason).
		Return(cancelled, nil)
	f.expectMemberProfile(1, "010-1234-5678")
	f.notifier.On("Send", mock.Anything, "010-1234-5678", "reservation-cancelled",
		map[string]string{"date": "2024-01-15", "time": "10:00", "type": "PT", "reason": reason}).Return(nil)

	got, err := f.svc.Cancel(context.Background(), 7, InitiatorMember, reason)

	assert.NoError(t, err)
	assert.Equal(t, session.StatusCancelled, got.Status)
	f.notifier.AssertExpectations(t)
}

func TestCancel_MemberWithoutReasonRejected(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, clock.Business)
	f := newFixture(now)

	f.sessions.On("GetByID", mock.Anything, 7).Return(cancelFixtureSession(session.StatusRequested), nil)

	_, err := f.svc.Cancel(context.Background(), 7, InitiatorMember, "")

	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestCancel_TrainerIgnoresWindowAndReason(t *testing.T) {
	// Inside the member window, but trainer-initiated.
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, clock.Business)
	f := newFixture(now)

	cancelled := cancelFixtureSession(session.StatusCancelled)

	f.sessions.On("GetByID", mock.Anything, 7).Return(cancelFixtureSession(session.StatusConfirmed), nil)
	f.sessions.On("UpdateStatus", mock.Anything, 7,
		[]session.Status{session.StatusRequested, session.StatusConfirmed},
		session.StatusCancelled, (*string)(nil)).
		Return(cancelled, nil)
	f.expectMemberProfile(1, "010-1234-5678")
	f.notifier.On("Send", mock.Anything, mock.Anything, "reservation-cancelled", mock.Anything).Return(nil)

	_, err := f.svc.Cancel(context.Background(), 7, InitiatorTrainer, "")

	assert.NoError(t, err)
}

func TestCancel_CancelledIsTerminal(t *testing.T) {
	f := newFixture(day("2024-01-10"))

	f.sessions.On("GetByID", mock.Anything, 7).Return(cancelFixtureSession(session.StatusCancelled), nil)

	_, err := f.svc.Cancel(context.Background(), 7, InitiatorTrainer, "whatever")

	assert.ErrorIs(t, err, ErrInvalidTransition)
	f.sessions.AssertNotCalled(t, "UpdateStatus")
}

func TestReject_Requested(t *testing.T) {
	f := newFixture(day("2024-01-10"))

	cancelled := cancelFixtureSession(session.StatusCancelled)

	f.sessions.On("GetByID", mock.Anything, 7).Return(cancelFixtureSession(session.StatusRequested), nil)
	f.sessions.On("UpdateStatus", mock.Anything, 7,
		[]session.Status{session.StatusRequested}, session.StatusCancelled, (*string)(nil)).
		Return(cancelled, nil)
	f.expectMemberProfile(1, "010-1234-5678")
	f.notifier.On("Send", mock.Anything, mock.Anything, "reservation-cancelled", mock.Anything).Return(nil)

	got, err := f.svc.Reject(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, session.StatusCancelled, got.Status)
}

func TestReject_ConfirmedNotAllowed(t *testing.T) {
	f := newFixture(day("2024-01-10"))

	f.sessions.On("GetByID", mock.Anything, 7).Return(cancelFixtureSession(session.StatusConfirmed), nil)

	_, err := f.svc.Reject(context.Background(), 7)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRemaining_NoPackage(t *testing.T) {
	f := newFixture(day("2024-01-10"))

	f.packs.On("FindActiveForDate", mock.Anything, 1, mock.Anything).Return(nil, nil)

	snap, err := f.svc.Remaining(context.Background(), 1, 2, session.TypePT, day("2024-01-15"))

	assert.NoError(t, err)
	assert.False(t, snap.Offered)
}

// The full booking lifecycle: one PT credit, request, exhaust,
// confirm with notification, cancel frees the credit.
func TestEndToEndScenario(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, clock.Business)
	f := newFixture(now)

	pkg := ptPackage(1, 2, 1)
	f.packs.On("FindActiveForDate", mock.Anything, 1, mock.Anything).Return(pkg, nil)

	// First request: no usage yet.
	f.sessions.On("ListForQuota", mock.Anything, 1, 2, session.TypePT, mock.Anything, mock.Anything).
		Return([]session.Session{}, nil).Once()
	f.sessions.On("FindConfirmedAtSlot", mock.Anything, 2, mock.Anything, 10, 0).Return(nil, nil)
	requested := &session.Session{
		ID: 7, TrainerID: 2, MemberID: 1,
		WorkoutDate: day("2024-01-15"), SlotHour: 10,
		Type: session.TypePT, Status: session.StatusRequested,
	}
	f.sessions.On("Insert", mock.Anything, 2, 1, mock.Anything, 10, session.TypePT).Return(requested, nil)

	first, err := f.svc.Request(context.Background(), 1, 2, day("2024-01-15"), 10, session.TypePT)
	assert.NoError(t, err)
	assert.Equal(t, session.StatusRequested, first.Status)

	// Second request: the requested session now consumes the only credit.
	f.sessions.On("ListForQuota", mock.Anything, 1, 2, session.TypePT, mock.Anything, mock.Anything).
		Return([]session.Session{*requested}, nil).Once()

	_, err = f.svc.Request(context.Background(), 1, 2, day("2024-01-16"), 10, session.TypePT)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// Trainer confirms; member is notified.
	confirmed := *requested
	confirmed.Status = session.StatusConfirmed
	f.sessions.On("GetByID", mock.Anything, 7).Return(requested, nil).Once()
	f.sessions.On("FindConfirmedAtSlot", mock.Anything, 2, mock.Anything, 10, 7).Return(nil, nil)
	f.sessions.On("UpdateStatus", mock.Anything, 7,
		[]session.Status{session.StatusRequested}, session.StatusConfirmed, (*string)(nil)).
		Return(&confirmed, nil)
	f.expectMemberProfile(1, "010-1234-5678")
	f.notifier.On("Send", mock.Anything, "010-1234-5678", "reservation-confirmed",
		map[string]string{"date": "2024-01-15", "time": "10:00", "type": "PT"}).Return(nil)

	_, err = f.svc.Confirm(context.Background(), 7)
	assert.NoError(t, err)

	// Member cancels outside the window with a reason.
	reason := "schedule conflict"
	cancelled := confirmed
	cancelled.Status = session.StatusCancelled
	f.sessions.On("GetByID", mock.Anything, 7).Return(&confirmed, nil).Once()
	f.sessions.On("UpdateStatus", mock.Anything, 7,
		[]session.Status{session.StatusRequested, session.StatusConfirmed},
		session.StatusCancelled, &reason).
		Return(&cancelled, nil)
	f.notifier.On("Send", mock.Anything, "010-1234-5678", "reservation-cancelled",
		map[string]string{"date": "2024-01-15", "time": "10:00", "type": "PT", "reason": reason}).Return(nil)

	got, err := f.svc.Cancel(context.Background(), 7, InitiatorMember, reason)
	assert.NoError(t, err)
	assert.Equal(t, session.StatusCancelled, got.Status)

	// The cancelled session frees its credit.
	f.sessions.On("ListForQuota", mock.Anything, 1, 2, session.TypePT, mock.Anything, mock.Anything).
		Return([]session.Session{cancelled}, nil).Once()

	snap, err := f.svc.Remaining(context.Background(), 1, 2, session.TypePT, day("2024-01-15"))
	assert.NoError(t, err)
	assert.Equal(t, 0, snap.Used)
	assert.Equal(t, 1, snap.Remaining)
}
