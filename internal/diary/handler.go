package diary

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

type createEntryRequest struct {
	Date    string `json:"date" binding:"required"`
	Meal    string `json:"meal" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *Handler) Create(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	meal := Meal(req.Meal)
	if !meal.Valid() {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid meal"})
		return
	}

	date, err := clock.ParseDay(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
		return
	}

	entry, err := h.repo.Insert(c.Request.Context(), memberID, date, meal, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create entry"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

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

	entries, err := h.repo.ListByMemberAndRange(c.Request.Context(), memberID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *Handler) Delete(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("entryID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid entry ID"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id, memberID); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete entry"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Entry deleted"})
}
