package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/digisapp/exa-platform/internal/repository"
	"github.com/digisapp/exa-platform/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondServiceError maps domain errors onto the HTTP error taxonomy. The
// 402 payload carries the full balance breakdown so clients can prompt a
// coin purchase with exact numbers.
func respondServiceError(c *gin.Context, err error) {
	var insufficient *service.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":     "insufficient coins",
			"required":  insufficient.Required,
			"balance":   insufficient.Balance,
			"available": insufficient.Available,
			"pending":   insufficient.Pending,
		})
		return
	}
	var tooLow *service.BidTooLowError
	if errors.As(err, &tooLow) {
		c.JSON(http.StatusConflict, gin.H{
			"error":       "bid too low",
			"current_bid": tooLow.CurrentBid,
			"minimum":     tooLow.Minimum,
		})
		return
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, repository.ErrInsufficientBalance):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient coins"})
	case errors.Is(err, repository.ErrNoBalanceProfile):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidServiceType),
		errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrInvalidAuction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBookingNotPending),
		errors.Is(err, service.ErrBookingNotCounter),
		errors.Is(err, service.ErrBookingNotAccepted),
		errors.Is(err, service.ErrBookingClosed),
		errors.Is(err, service.ErrSlotUnavailable),
		errors.Is(err, service.ErrCallNotPending),
		errors.Is(err, service.ErrAuctionNotActive),
		errors.Is(err, service.ErrAuctionEnded),
		errors.Is(err, service.ErrWithdrawalClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrOwnAuctionBid),
		errors.Is(err, service.ErrNotAcceptingWork):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCallNotOffered),
		errors.Is(err, service.ErrWithdrawalTooSmall),
		errors.Is(err, service.ErrPackageUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// paginate reads ?limit= and ?offset= with sane caps.
func paginate(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
