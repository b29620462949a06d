package handler

import (
	"net/http"
	"time"

	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/middleware"
	"github.com/digisapp/exa-platform/internal/models"
	"github.com/digisapp/exa-platform/internal/repository"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	slots     *repository.AvailabilityRepository
	modelRepo *repository.ModelRepository
}

func NewAvailabilityHandler(slots *repository.AvailabilityRepository, modelRepo *repository.ModelRepository) *AvailabilityHandler {
	return &AvailabilityHandler{slots: slots, modelRepo: modelRepo}
}

type createSlotRequest struct {
	StartsAt string `json:"starts_at" binding:"required"` // RFC3339
	EndsAt   string `json:"ends_at" binding:"required"`
}

func (h *AvailabilityHandler) Create(c *gin.Context) {
	var req createSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid starts_at (use RFC3339)"})
		return
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ends_at (use RFC3339)"})
		return
	}
	if !endsAt.After(startsAt) || !startsAt.After(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot must be in the future and end after it starts"})
		return
	}
	model, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	slot := &models.AvailabilitySlot{
		ModelID:  model.ID,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		Status:   domain.SlotStatusOpen,
	}
	if err := h.slots.Create(slot); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slot": slot})
}

// ListForModel shows a model's open future slots; public, so clients can pick
// one when booking.
func (h *AvailabilityHandler) ListForModel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.slots.ListOpenByModel(id, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": list})
}

func (h *AvailabilityHandler) ListMine(c *gin.Context) {
	model, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	list, err := h.slots.ListOpenByModel(model.ID, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": list})
}

// Delete removes an OPEN slot; booked slots are released only through the
// booking lifecycle.
func (h *AvailabilityHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	model, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.slots.Delete(model.ID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
