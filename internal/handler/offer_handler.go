package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/digisapp/exa-platform/internal/middleware"
	"github.com/digisapp/exa-platform/internal/repository"
	"github.com/digisapp/exa-platform/internal/service"

	"github.com/gin-gonic/gin"
)

// OfferHandler is the client's side of counter offers: accepting escrows the
// countered total, declining closes the booking.
type OfferHandler struct {
	escrow    *service.EscrowService
	modelRepo *repository.ModelRepository
	notifier  *service.NotificationService
}

func NewOfferHandler(escrow *service.EscrowService, modelRepo *repository.ModelRepository, notifier *service.NotificationService) *OfferHandler {
	return &OfferHandler{escrow: escrow, modelRepo: modelRepo, notifier: notifier}
}

type respondOfferRequest struct {
	Action string `json:"action" binding:"required,oneof=accept decline"`
}

func (h *OfferHandler) Respond(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req respondOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	clientID := middleware.GetActorID(c)
	switch req.Action {
	case "accept":
		b, err := h.escrow.AcceptCounter(clientID, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if model, mErr := h.modelRepo.GetByID(b.ModelID); mErr == nil {
			h.notifier.Notify(c.Request.Context(), model.ActorID, "counter_accepted",
				"Counter offer accepted",
				fmt.Sprintf("The client accepted your counter; %d coins are in escrow", b.TotalCoins),
				map[string]string{"booking_id": strconv.FormatUint(uint64(b.ID), 10)})
		}
		c.JSON(http.StatusOK, gin.H{"booking": b})
	case "decline":
		b, err := h.escrow.DeclineCounter(clientID, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if model, mErr := h.modelRepo.GetByID(b.ModelID); mErr == nil {
			h.notifier.Notify(c.Request.Context(), model.ActorID, "counter_declined",
				"Counter offer declined", "The client declined your counter offer",
				map[string]string{"booking_id": strconv.FormatUint(uint64(b.ID), 10)})
		}
		c.JSON(http.StatusOK, gin.H{"booking": b})
	}
}
