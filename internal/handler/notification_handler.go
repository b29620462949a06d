package handler

import (
	"net/http"

	"github.com/digisapp/exa-platform/internal/middleware"
	"github.com/digisapp/exa-platform/internal/repository"
	"github.com/digisapp/exa-platform/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc       *service.NotificationService
	actorRepo *repository.ActorRepository
}

func NewNotificationHandler(svc *service.NotificationService, actorRepo *repository.ActorRepository) *NotificationHandler {
	return &NotificationHandler{svc: svc, actorRepo: actorRepo}
}

func (h *NotificationHandler) List(c *gin.Context) {
	limit, offset := paginate(c)
	list, err := h.svc.List(middleware.GetActorID(c), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkRead(middleware.GetActorID(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}

type fcmTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// RegisterDevice stores the actor's FCM token for push delivery.
func (h *NotificationHandler) RegisterDevice(c *gin.Context) {
	var req fcmTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor, err := h.actorRepo.GetByID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	actor.FCMToken = req.Token
	if err := h.actorRepo.Update(actor); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registered": true})
}
