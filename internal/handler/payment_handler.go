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

type PaymentHandler struct {
	svc       *service.PaymentService
	actorRepo *repository.ActorRepository
	log       zerolog.Logger
}

func NewPaymentHandler(svc *service.PaymentService, actorRepo *repository.ActorRepository, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, actorRepo: actorRepo, log: log}
}

func (h *PaymentHandler) ListPackages(c *gin.Context) {
	packages, err := h.svc.ListPackages()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages})
}

type initiatePurchaseRequest struct {
	PackageID uint `json:"package_id" binding:"required"`
}

func (h *PaymentHandler) InitiatePurchase(c *gin.Context) {
	var req initiatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor, err := h.actorRepo.GetByID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	payment, checkoutURL, err := h.svc.InitiatePurchase(c.Request.Context(), actor, req.PackageID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment, "checkout_url": checkoutURL})
}

func (h *PaymentHandler) ListMine(c *gin.Context) {
	limit, offset := paginate(c)
	list, err := h.svc.ListByActor(middleware.GetActorID(c), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": list})
}

// Webhook is the provider callback that actually credits coins. Always 200
// on handled events so the provider stops retrying; signature failures 401.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	var ev service.WebhookEvent
	if err := json.Unmarshal(raw, &ev); err != nil || ev.Reference == "" || ev.Status == "" {
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
		h.log.Error().Err(err).Str("ref", ev.Reference).Msg("payment webhook failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
	}
}
