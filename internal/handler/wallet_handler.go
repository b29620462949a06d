package handler

import (
	"net/http"

	"github.com/digisapp/exa-platform/internal/middleware"
	"github.com/digisapp/exa-platform/internal/repository"
	"github.com/digisapp/exa-platform/internal/service"

	"github.com/gin-gonic/gin"
)

// WalletHandler exposes the balance view. For client roles the response
// includes the reservation breakdown: balance, pending holds, available.
type WalletHandler struct {
	ledger *repository.LedgerRepository
	escrow *service.EscrowService
}

func NewWalletHandler(ledger *repository.LedgerRepository, escrow *service.EscrowService) *WalletHandler {
	return &WalletHandler{ledger: ledger, escrow: escrow}
}

func (h *WalletHandler) Balance(c *gin.Context) {
	actorID := middleware.GetActorID(c)
	role := middleware.GetRole(c)
	if repository.IsClientRole(role) {
		avail, err := h.escrow.Availability(role, actorID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"balance":   avail.Balance,
			"pending":   avail.Pending,
			"available": avail.Available,
		})
		return
	}
	balance, err := h.ledger.Balance(role, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (h *WalletHandler) Transactions(c *gin.Context) {
	limit, offset := paginate(c)
	list, err := h.ledger.ListByActor(middleware.GetActorID(c), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}
