package health

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ekdma/pt-trainer-log-sub001/internal/api"
	"github.com/ekdma/pt-trainer-log-sub001/internal/auth"
	"github.com/ekdma/pt-trainer-log-sub001/internal/clock"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type createRecordRequest struct {
	MeasuredOn string   `json:"measured_on" binding:"required"`
	WeightKg   *float64 `json:"weight_kg"`
	BodyFatPct *float64 `json:"body_fat_pct"`
	MuscleKg   *float64 `json:"muscle_kg"`
}

func (h *Handler) Create(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req createRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if req.WeightKg == nil && req.BodyFatPct == nil && req.MuscleKg == nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "At least one metric required"})
		return
	}

	measuredOn, err := clock.ParseDay(req.MeasuredOn)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid measured_on, expected YYYY-MM-DD"})
		return
	}

	rec, err := h.repo.Insert(c.Request.Context(), memberID, measuredOn, req.WeightKg, req.BodyFatPct, req.MuscleKg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create record"})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// List returns measurements ordered by date, ready for graphing.
func (h *Handler) List(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	from, err := clock.ParseDay(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid from date, expected YYYY-MM-DD"})
		return
	}

	to, err := clock.ParseDay(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid to date, expected YYYY-MM-DD"})
		return
	}

	records, err := h.repo.ListByMemberAndRange(c.Request.Context(), memberID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *Handler) Delete(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("recordID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid record ID"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id, memberID); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete record"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Record deleted"})
}
