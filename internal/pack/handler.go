package pack

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ekdma/pt-trainer-log-sub001/internal/api"
	"github.com/ekdma/pt-trainer-log-sub001/internal/clock"
	"github.com/ekdma/pt-trainer-log-sub001/internal/metrics"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type packageRequest struct {
	TrainerID  int    `json:"trainer_id" binding:"required"`
	PTCount    int    `json:"pt_count" binding:"min=0"`
	GroupCount int    `json:"group_count" binding:"min=0"`
	SelfCount  int    `json:"self_count" binding:"min=0"`
	PriceCents int64  `json:"price_cents" binding:"min=0"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
}

func (r *packageRequest) fields() (Fields, error) {
	start, err := clock.ParseDay(r.StartDate)
	if err != nil {
		return Fields{}, err
	}
	end, err := clock.ParseDay(r.EndDate)
	if err != nil {
		return Fields{}, err
	}
	if end.Before(start) {
		return Fields{}, errors.New("end_date before start_date")
	}
	return Fields{
		TrainerID:  r.TrainerID,
		PTCount:    r.PTCount,
		GroupCount: r.GroupCount,
		SelfCount:  r.SelfCount,
		PriceCents: r.PriceCents,
		StartDate:  start,
		EndDate:    end,
	}, nil
}

// Register creates a package for a member at first registration.
func (h *Handler) Register(c *gin.Context) {
	memberID, ok := h.memberID(c)
	if !ok {
		return
	}

	f, ok := h.bindFields(c)
	if !ok {
		return
	}

	created, err := h.repo.Insert(c.Request.Context(), memberID, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create package"})
		return
	}

	metrics.PackagesRegisteredTotal.Inc()
	c.JSON(http.StatusCreated, created)
}

// Reregister closes the member's active packages and creates the new one
// atomically.
func (h *Handler) Reregister(c *gin.Context) {
	memberID, ok := h.memberID(c)
	if !ok {
		return
	}

	f, ok := h.bindFields(c)
	if !ok {
		return
	}

	created, err := h.repo.Reregister(c.Request.Context(), memberID, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to re-register package"})
		return
	}

	metrics.PackagesRegisteredTotal.Inc()
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) Update(c *gin.Context) {
	packageID, err := strconv.Atoi(c.Param("packageID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid package ID"})
		return
	}

	f, ok := h.bindFields(c)
	if !ok {
		return
	}

	updated, err := h.repo.Update(c.Request.Context(), packageID, f)
	if err != nil {
		if errors.Is(err, ErrPackageNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Package not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update package"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c *gin.Context) {
	packageID, err := strconv.Atoi(c.Param("packageID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid package ID"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), packageID); err != nil {
		if errors.Is(err, ErrPackageNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Package not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete package"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Package deleted"})
}

func (h *Handler) ListByMember(c *gin.Context) {
	memberID, ok := h.memberID(c)
	if !ok {
		return
	}

	packages, err := h.repo.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Database error"})
		return
	}

	c.JSON(http.StatusOK, packages)
}

func (h *Handler) memberID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return 0, false
	}
	return id, true
}

func (h *Handler) bindFields(c *gin.Context) (Fields, bool) {
	var req packageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return Fields{}, false
	}

	f, err := req.fields()
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return Fields{}, false
	}

	return f, true
}
