package booking

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ekdma/pt-trainer-log-sub001/internal/api"
	"github.com/ekdma/pt-trainer-log-sub001/internal/auth"
	"github.com/ekdma/pt-trainer-log-sub001/internal/calendar"
	"github.com/ekdma/pt-trainer-log-sub001/internal/clock"
	"github.com/ekdma/pt-trainer-log-sub001/internal/session"
)

type Handler struct {
	svc      Service
	sessions session.Repository
}

func NewHandler(svc Service, sessions session.Repository) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

type requestSessionRequest struct {
	TrainerID int    `json:"trainer_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Hour      int    `json:"hour" binding:"min=0,max=23"`
	Type      string `json:"type" binding:"required"`
}

type cancelSessionRequest struct {
	Reason string `json:"reason"`
}

// RequestSession creates a session request for the authenticated member.
func (h *Handler) RequestSession(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req requestSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	typ := session.Type(req.Type)
	if !typ.Valid() {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid session type"})
		return
	}

	date, err := clock.ParseDay(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
		return
	}

	created, err := h.svc.Request(c.Request.Context(), memberID, req.TrainerID, date, req.Hour, typ)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ConfirmSession confirms a requested session. Trainer only.
func (h *Handler) ConfirmSession(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	updated, err := h.svc.Confirm(c.Request.Context(), sessionID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// CancelSession cancels a session. Members are bound by the 24h window and
// must give a reason; trainers are not.
func (h *Handler) CancelSession(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	// An absent body means a trainer cancelling without a reason.
	var req cancelSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	role, _ := auth.GetUserRole(c)
	by := InitiatorMember
	if role == auth.RoleTrainer {
		by = InitiatorTrainer
	}

	if by == InitiatorMember {
		sess, err := h.sessions.GetByID(c.Request.Context(), sessionID)
		if err != nil {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Session not found"})
			return
		}
		if sess.MemberID != userID {
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Can only cancel own sessions"})
			return
		}
	}

	updated, err := h.svc.Cancel(c.Request.Context(), sessionID, by, req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// RejectSession declines a requested session. Trainer only.
func (h *Handler) RejectSession(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	updated, err := h.svc.Reject(c.Request.Context(), sessionID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Quota reports the allowance snapshot for the authenticated member.
func (h *Handler) Quota(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	trainerID, err := strconv.Atoi(c.Query("trainer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid trainer ID"})
		return
	}

	typ := session.Type(c.Query("type"))
	if !typ.Valid() {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid session type"})
		return
	}

	date, err := clock.ParseDay(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
		return
	}

	snap, err := h.svc.Remaining(c.Request.Context(), memberID, trainerID, typ, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"offered":   snap.Offered,
		"total":     snap.Total,
		"used":      snap.Used,
		"remaining": snap.DisplayRemaining(),
	})
}

// TrainerSchedule lists a trainer's sessions for one day plus the hours
// already confirmed (used by the booking UI to grey out slots).
func (h *Handler) TrainerSchedule(c *gin.Context) {
	trainerID, err := strconv.Atoi(c.Param("trainerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid trainer ID"})
		return
	}

	date, err := clock.ParseDay(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
		return
	}

	sessions, err := h.sessions.ListByTrainerAndDate(c.Request.Context(), trainerID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
		return
	}

	taken, err := h.sessions.ConfirmedHours(c.Request.Context(), trainerID, date, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
		return
	}

	hours := make([]int, 0, len(taken))
	for hr := range taken {
		hours = append(hours, hr)
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions":        sessions,
		"confirmed_hours": hours,
	})
}

// MemberCalendar returns day decorations for the authenticated member's
// sessions in [from, to].
func (h *Handler) MemberCalendar(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	from, to, ok := h.dateRange(c)
	if !ok {
		return
	}

	sessions, err := h.sessions.ListByMemberAndRange(c.Request.Context(), memberID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"decorations": calendar.Decorate(sessions)})
}

// TrainerCalendar returns day decorations for a trainer's sessions.
func (h *Handler) TrainerCalendar(c *gin.Context) {
	trainerID, err := strconv.Atoi(c.Param("trainerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid trainer ID"})
		return
	}

	from, to, ok := h.dateRange(c)
	if !ok {
		return
	}

	sessions, err := h.sessions.ListByTrainerAndRange(c.Request.Context(), trainerID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"decorations": calendar.Decorate(sessions)})
}

func (h *Handler) sessionID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid session ID"})
		return 0, false
	}
	return id, true
}

func (h *Handler) dateRange(c *gin.Context) (from, to time.Time, ok bool) {
	from, err := clock.ParseDay(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid from date, expected YYYY-MM-DD"})
		return from, to, false
	}
	to, err = clock.ParseDay(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid to date, expected YYYY-MM-DD"})
		return from, to, false
	}
	return from, to, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Session not found"})
	case errors.Is(err, ErrNoActivePackage):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "No active package covers this date"})
	case errors.Is(err, ErrQuotaExceeded):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "No sessions left for this type"})
	case errors.Is(err, ErrSlotTaken):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Slot already confirmed for another member"})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Status change not allowed"})
	case errors.Is(err, ErrReasonRequired):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Cancellation reason required"})
	case errors.Is(err, ErrWindowClosed):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Sessions starting within 24 hours can no longer be cancelled"})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
	}
}
