package handler

import (
	"net/http"

	"github.com/digisapp/exa-platform/internal/middleware"
	"github.com/digisapp/exa-platform/internal/repository"
	"github.com/digisapp/exa-platform/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	actorRepo  *repository.ActorRepository
	ledger     *repository.LedgerRepository
	auctionSvc *service.AuctionService
	auditRepo  *repository.AuditLogRepository
}

func NewAdminHandler(
	actorRepo *repository.ActorRepository,
	ledger *repository.LedgerRepository,
	auctionSvc *service.AuctionService,
	auditRepo *repository.AuditLogRepository,
) *AdminHandler {
	return &AdminHandler{actorRepo: actorRepo, ledger: ledger, auctionSvc: auctionSvc, auditRepo: auditRepo}
}

func (h *AdminHandler) ListActors(c *gin.Context) {
	limit, offset := paginate(c)
	list, err := h.actorRepo.List(c.Query("role"), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actors": list})
}

func (h *AdminHandler) ListTransactions(c *gin.Context) {
	limit, offset := paginate(c)
	list, err := h.ledger.ListAll(limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}

func (h *AdminHandler) Stats(c *gin.Context) {
	actors, err := h.actorRepo.Count()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actors": actors})
}

// CancelAuction is the moderation override; active bids are refunded.
func (h *AdminHandler) CancelAuction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	auction, err := h.auctionSvc.CancelAuction(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.auditRepo.Record(middleware.GetActorID(c), "admin_cancel_auction", "auction", id, nil)
	c.JSON(http.StatusOK, gin.H{"auction": auction})
}

func (h *AdminHandler) ListAuditLog(c *gin.Context) {
	limit, offset := paginate(c)
	list, err := h.auditRepo.List(limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit": list})
}
