package handler

import (
	"net/http"
	"time"

	"github.com/digisapp/exa-platform/internal/middleware"
	"github.com/digisapp/exa-platform/internal/repository"
	"github.com/digisapp/exa-platform/internal/service"

	"github.com/gin-gonic/gin"
)

type AuctionHandler struct {
	svc         *service.AuctionService
	auctionRepo *repository.AuctionRepository
	modelRepo   *repository.ModelRepository
	actorRepo   *repository.ActorRepository
}

func NewAuctionHandler(
	svc *service.AuctionService,
	auctionRepo *repository.AuctionRepository,
	modelRepo *repository.ModelRepository,
	actorRepo *repository.ActorRepository,
) *AuctionHandler {
	return &AuctionHandler{svc: svc, auctionRepo: auctionRepo, modelRepo: modelRepo, actorRepo: actorRepo}
}

type createAuctionRequest struct {
	Title            string `json:"title" binding:"required,max=255"`
	Description      string `json:"description"`
	StartingPrice    int64  `json:"starting_price" binding:"required,min=1"`
	BuyNowPrice      int64  `json:"buy_now_price" binding:"omitempty,min=1"`
	ReservePrice     int64  `json:"reserve_price" binding:"omitempty,min=1"`
	EndsAt           string `json:"ends_at" binding:"required"` // RFC3339
	AntiSnipeMinutes int    `json:"anti_snipe_minutes" binding:"omitempty,min=0,max=60"`
}

func (h *AuctionHandler) Create(c *gin.Context) {
	var req createAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ends_at (use RFC3339)"})
		return
	}
	model, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	auction, err := h.svc.CreateAuction(model, req.Title, req.Description,
		req.StartingPrice, req.BuyNowPrice, req.ReservePrice, endsAt, req.AntiSnipeMinutes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"auction": auction})
}

func (h *AuctionHandler) List(c *gin.Context) {
	limit, offset := paginate(c)
	list, err := h.auctionRepo.ListActive(limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auctions": list})
}

func (h *AuctionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	auction, err := h.auctionRepo.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auction": auction})
}

func (h *AuctionHandler) ListBids(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, offset := paginate(c)
	bids, err := h.auctionRepo.ListBids(id, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bids": bids})
}

type placeBidRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

// PlaceBid runs the compare-and-swap on current_bid. A bid at or above the
// buy-now price settles the auction immediately.
func (h *AuctionHandler) PlaceBid(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req placeBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bidder, err := h.actorRepo.GetByID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	bid, auction, err := h.svc.PlaceBid(bidder, id, req.Amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bid": bid, "auction": auction})
}

// Cancel lets the owning model withdraw an auction before any bid lands.
func (h *AuctionHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	model, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	auction, err := h.auctionRepo.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if auction.ModelID != model.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	cancelled, err := h.svc.CancelAuction(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auction": cancelled})
}
