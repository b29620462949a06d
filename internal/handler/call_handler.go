package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/digisapp/exa-platform/internal/middleware"
	"github.com/digisapp/exa-platform/internal/repository"
	"github.com/digisapp/exa-platform/internal/service"

	"github.com/gin-gonic/gin"
)

type CallHandler struct {
	svc       *service.CallService
	callRepo  *repository.CallRequestRepository
	modelRepo *repository.ModelRepository
	actorRepo *repository.ActorRepository
	notifier  *service.NotificationService
}

func NewCallHandler(
	svc *service.CallService,
	callRepo *repository.CallRequestRepository,
	modelRepo *repository.ModelRepository,
	actorRepo *repository.ActorRepository,
	notifier *service.NotificationService,
) *CallHandler {
	return &CallHandler{svc: svc, callRepo: callRepo, modelRepo: modelRepo, actorRepo: actorRepo, notifier: notifier}
}

type createCallRequest struct {
	ModelID     uint   `json:"model_id" binding:"required"`
	ScheduledAt string `json:"scheduled_at" binding:"required"` // RFC3339
	Message     string `json:"message" binding:"max=500"`
}

func (h *CallHandler) Create(c *gin.Context) {
	var req createCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduled_at (use RFC3339)"})
		return
	}
	fan, err := h.actorRepo.GetByID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	model, err := h.modelRepo.GetByID(req.ModelID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	cr, err := h.svc.CreateRequest(fan, model, scheduledAt, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.notifier.Notify(c.Request.Context(), model.ActorID, "call_request",
		"New video call request",
		fmt.Sprintf("%s requested a video call for %d coins", fan.Username, cr.TotalCoins),
		map[string]string{"call_id": strconv.FormatUint(uint64(cr.ID), 10)})
	c.JSON(http.StatusCreated, gin.H{"call_request": cr})
}

func (h *CallHandler) ListMine(c *gin.Context) {
	limit, offset := paginate(c)
	list, err := h.callRepo.ListByFan(middleware.GetActorID(c), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"call_requests": list})
}

func (h *CallHandler) ListForModel(c *gin.Context) {
	model, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	limit, offset := paginate(c)
	list, err := h.callRepo.ListByModel(model.ID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"call_requests": list})
}

// Accept charges the fan and credits the model in one transaction.
func (h *CallHandler) Accept(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	model, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	cr, err := h.svc.Accept(model.ID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.notifier.Notify(c.Request.Context(), cr.FanActorID, "call_accepted",
		"Call request accepted",
		fmt.Sprintf("Your video call was accepted; %d coins were charged", cr.TotalCoins),
		map[string]string{"call_id": strconv.FormatUint(uint64(cr.ID), 10)})
	c.JSON(http.StatusOK, gin.H{"call_request": cr})
}

func (h *CallHandler) Decline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	model, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	cr, err := h.svc.Decline(model.ID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.notifier.Notify(c.Request.Context(), cr.FanActorID, "call_declined",
		"Call request declined", "The model declined your video call request",
		map[string]string{"call_id": strconv.FormatUint(uint64(cr.ID), 10)})
	c.JSON(http.StatusOK, gin.H{"call_request": cr})
}

func (h *CallHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cr, err := h.svc.Cancel(middleware.GetActorID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"call_request": cr})
}
