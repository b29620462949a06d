package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/digisapp/exa-platform/internal/middleware"
	"github.com/digisapp/exa-platform/internal/repository"
	"github.com/digisapp/exa-platform/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type WithdrawalHandler struct {
	svc       *service.WithdrawalService
	actorRepo *repository.ActorRepository
	log       zerolog.Logger
}

func NewWithdrawalHandler(svc *service.WithdrawalService, actorRepo *repository.ActorRepository, log zerolog.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{svc: svc, actorRepo: actorRepo, log: log}
}

type withdrawRequest struct {
	Coins       int64  `json:"coins" binding:"required,min=1"`
	PhoneNumber string `json:"phone_number" binding:"required"`
}

func (h *WithdrawalHandler) Request(c *gin.Context) {
	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor, err := h.actorRepo.GetByID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	w, err := h.svc.Request(c.Request.Context(), actor, req.Coins, req.PhoneNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"withdrawal": w})
}

func (h *WithdrawalHandler) ListMine(c *gin.Context) {
	limit, offset := paginate(c)
	list, err := h.svc.ListByActor(middleware.GetActorID(c), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}

// Webhook resolves pending payouts; FAILED refunds the coins.
func (h *WithdrawalHandler) Webhook(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	var ev service.WithdrawalWebhook
	if err := json.Unmarshal(raw, &ev); err != nil || ev.OrderID == "" || ev.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	err = h.svc.HandleWebhook(raw, c.GetHeader("X-Signature"), ev)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"received": true})
	case errors.Is(err, service.ErrBadWebhook):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "signature mismatch"})
	default:
		h.log.Error().Err(err).Str("order_id", ev.OrderID).Msg("withdrawal webhook failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
	}
}
