package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/digisapp/exa-platform/config"
	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/models"
	"github.com/digisapp/exa-platform/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	ErrAuctionNotActive = errors.New("auction is not active")
	ErrAuctionEnded     = errors.New("auction has ended")
	ErrOwnAuctionBid    = errors.New("cannot bid on your own auction")
	ErrInvalidAuction   = errors.New("invalid auction parameters")
)

// BidTooLowError reports the strictly-increasing bid rule: a new bid must
// exceed the current high bid (or meet the starting price).
type BidTooLowError struct {
	CurrentBid int64 `json:"current_bid"`
	Minimum    int64 `json:"minimum"`
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid must be at least %d (current bid %d)", e.Minimum, e.CurrentBid)
}

// EventPublisher receives auction events after the owning transaction
// commits. Implementations are best-effort.
type EventPublisher interface {
	PublishBidPlaced(ctx context.Context, auctionID uint, amount int64, endsAt time.Time)
	PublishAuctionClosed(ctx context.Context, auctionID uint, status string, finalBid int64)
}

// AuctionService implements the bid ledger: one WINNING bid per auction,
// escrow replacement on outbid, anti-snipe extension, buy-now settlement
// and the time-based close. All state moves under the auction row lock.
type AuctionService struct {
	db       *gorm.DB
	ledger   *repository.LedgerRepository
	auctions *repository.AuctionRepository
	events   EventPublisher
	cfg      config.AuctionConfig
	log      zerolog.Logger
}

func NewAuctionService(
	db *gorm.DB,
	ledger *repository.LedgerRepository,
	auctions *repository.AuctionRepository,
	events EventPublisher,
	cfg config.AuctionConfig,
	log zerolog.Logger,
) *AuctionService {
	return &AuctionService{db: db, ledger: ledger, auctions: auctions, events: events, cfg: cfg, log: log}
}

func (s *AuctionService) CreateAuction(model *models.ModelProfile, title, description string, startingPrice, buyNowPrice, reservePrice int64, endsAt time.Time, antiSnipeMinutes int) (*models.Auction, error) {
	if title == "" || startingPrice < 1 || !endsAt.After(time.Now()) {
		return nil, ErrInvalidAuction
	}
	if buyNowPrice > 0 && buyNowPrice <= startingPrice {
		return nil, ErrInvalidAuction
	}
	if reservePrice > 0 && reservePrice < startingPrice {
		return nil, ErrInvalidAuction
	}
	if antiSnipeMinutes <= 0 {
		antiSnipeMinutes = s.cfg.DefaultAntiSnipeMin
	}
	a := &models.Auction{
		ModelID:          model.ID,
		Title:            title,
		Description:      description,
		StartingPrice:    startingPrice,
		BuyNowPrice:      buyNowPrice,
		ReservePrice:     reservePrice,
		EndsAt:           endsAt,
		AntiSnipeMinutes: antiSnipeMinutes,
		Status:           domain.AuctionStatusActive,
	}
	if err := s.auctions.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

// PlaceBid accepts or rejects a bid under the auction row lock. On success
// the previous winning bid (if any) flips to OUTBID and its escrow is
// released; the new bid's escrow becomes the bidder's reserved amount.
func (s *AuctionService) PlaceBid(bidder *models.Actor, auctionID uint, amount int64) (*models.AuctionBid, *models.Auction, error) {
	var (
		bid     *models.AuctionBid
		auction *models.Auction
		sold    bool
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		auction, err = s.auctions.GetForUpdate(tx, auctionID)
		if err != nil {
			return err
		}
		if auction.Status != domain.AuctionStatusActive {
			return ErrAuctionNotActive
		}
		now := time.Now()
		if !now.Before(auction.EndsAt) {
			return ErrAuctionEnded
		}
		var model models.ModelProfile
		if err := tx.First(&model, auction.ModelID).Error; err != nil {
			return err
		}
		if model.ActorID == bidder.ID {
			return ErrOwnAuctionBid
		}
		minimum := auction.StartingPrice
		if auction.CurrentBid > 0 {
			minimum = auction.CurrentBid + 1
		}
		if amount < minimum {
			return &BidTooLowError{CurrentBid: auction.CurrentBid, Minimum: minimum}
		}

		buyNow := auction.BuyNowPrice > 0 && amount >= auction.BuyNowPrice
		if buyNow {
			amount = auction.BuyNowPrice
		}

		// Previous winning bid: released if a competitor held it, replaced
		// if this bidder is raising their own bid.
		var prev *models.AuctionBid
		if auction.WinningBidID != nil {
			prev, err = s.auctions.GetBid(tx, *auction.WinningBidID)
			if err != nil {
				return err
			}
		}
		if err := s.checkBidderFunds(tx, bidder, prev, amount); err != nil {
			return err
		}
		if prev != nil {
			prev.Status = domain.BidStatusOutbid
			if err := s.auctions.SaveBid(tx, prev); err != nil {
				return err
			}
		}

		bid = &models.AuctionBid{
			AuctionID:     auction.ID,
			BidderActorID: bidder.ID,
			Amount:        amount,
			EscrowAmount:  amount,
			Status:        domain.BidStatusWinning,
		}
		if err := s.auctions.CreateBid(tx, bid); err != nil {
			return err
		}
		auction.CurrentBid = amount
		auction.WinningBidID = &bid.ID

		if buyNow {
			sold = true
			return s.settleSale(tx, auction, bid, &model)
		}
		if auction.AntiSnipeMinutes > 0 {
			window := time.Duration(auction.AntiSnipeMinutes) * time.Minute
			if auction.EndsAt.Sub(now) <= window {
				auction.EndsAt = auction.EndsAt.Add(window)
			}
		}
		return s.auctions.Save(tx, auction)
	})
	if err != nil {
		return nil, nil, err
	}
	ctx := context.Background()
	if s.events != nil {
		s.events.PublishBidPlaced(ctx, auction.ID, bid.Amount, auction.EndsAt)
		if sold {
			s.events.PublishAuctionClosed(ctx, auction.ID, auction.Status, auction.CurrentBid)
		}
	}
	return bid, auction, nil
}

// checkBidderFunds verifies the bidder can cover the new escrow on top of
// their winning commitments elsewhere. Their own bid being replaced does
// not count against them.
func (s *AuctionService) checkBidderFunds(tx *gorm.DB, bidder *models.Actor, prev *models.AuctionBid, amount int64) error {
	balance, err := s.ledger.LockBalance(tx, bidder.Role, bidder.ID)
	if err != nil {
		return err
	}
	committed, err := s.auctions.SumWinningEscrow(tx, bidder.ID)
	if err != nil {
		return err
	}
	if prev != nil && prev.BidderActorID == bidder.ID {
		committed -= prev.EscrowAmount
	}
	available := balance - committed
	if available < amount {
		return &InsufficientBalanceError{
			Required:  amount,
			Balance:   balance,
			Available: available,
			Pending:   committed,
		}
	}
	return nil
}

// settleSale moves coins bidder -> model and finalizes the auction as SOLD.
func (s *AuctionService) settleSale(tx *gorm.DB, auction *models.Auction, bid *models.AuctionBid, model *models.ModelProfile) error {
	var bidder models.Actor
	if err := tx.First(&bidder, bid.BidderActorID).Error; err != nil {
		return err
	}
	ref := fmt.Sprintf("auction:%d", auction.ID)
	if err := s.ledger.ApplyDelta(tx, bidder.Role, bidder.ID, -bid.Amount, domain.ActionAuctionSale, ref, ""); err != nil {
		return err
	}
	if err := s.ledger.ApplyDelta(tx, domain.RoleModel, model.ActorID, bid.Amount, domain.ActionAuctionEarning, ref, ""); err != nil {
		return err
	}
	now := time.Now()
	auction.Status = domain.AuctionStatusSold
	auction.ClosedAt = &now
	return s.auctions.Save(tx, auction)
}

// CloseDue settles every ACTIVE auction past its end time. Each auction is
// its own transaction so one failure cannot wedge the rest.
func (s *AuctionService) CloseDue(ctx context.Context) {
	due, err := s.auctions.ListDue(time.Now(), 100)
	if err != nil {
		s.log.Error().Err(err).Msg("list due auctions")
		return
	}
	for _, a := range due {
		if err := s.CloseOne(ctx, a.ID); err != nil {
			s.log.Error().Err(err).Uint("auction_id", a.ID).Msg("close auction")
		}
	}
}

// CloseOne resolves a single ended auction: SOLD when the reserve is met,
// NO_SALE otherwise. Re-checks end time under lock because anti-snipe may
// have extended it since the scan.
func (s *AuctionService) CloseOne(ctx context.Context, auctionID uint) error {
	var (
		auction  *models.Auction
		finalBid int64
		closed   bool
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		auction, err = s.auctions.GetForUpdate(tx, auctionID)
		if err != nil {
			return err
		}
		if auction.Status != domain.AuctionStatusActive || time.Now().Before(auction.EndsAt) {
			return nil
		}
		closed = true
		now := time.Now()

		if auction.WinningBidID == nil {
			auction.Status = domain.AuctionStatusNoSale
			auction.ClosedAt = &now
			return s.auctions.Save(tx, auction)
		}
		bid, err := s.auctions.GetBid(tx, *auction.WinningBidID)
		if err != nil {
			return err
		}
		if auction.ReservePrice > 0 && auction.CurrentBid < auction.ReservePrice {
			bid.Status = domain.BidStatusRefunded
			if err := s.auctions.SaveBid(tx, bid); err != nil {
				return err
			}
			auction.Status = domain.AuctionStatusNoSale
			auction.ClosedAt = &now
			return s.auctions.Save(tx, auction)
		}
		var model models.ModelProfile
		if err := tx.First(&model, auction.ModelID).Error; err != nil {
			return err
		}
		if err := s.settleSale(tx, auction, bid, &model); err != nil {
			if errors.Is(err, repository.ErrInsufficientBalance) {
				// The reservation was never a debit; the bidder spent the
				// coins elsewhere before close. Void the sale.
				s.log.Warn().Uint("auction_id", auction.ID).Uint("bid_id", bid.ID).
					Msg("winning bidder cannot cover escrow at close")
				bid.Status = domain.BidStatusRefunded
				if err := s.auctions.SaveBid(tx, bid); err != nil {
					return err
				}
				auction.Status = domain.AuctionStatusNoSale
				auction.ClosedAt = &now
				return s.auctions.Save(tx, auction)
			}
			return err
		}
		finalBid = bid.Amount
		return nil
	})
	if err != nil {
		return err
	}
	if closed && s.events != nil {
		s.events.PublishAuctionClosed(ctx, auction.ID, auction.Status, finalBid)
	}
	return nil
}

// CancelAuction voids an ACTIVE auction; the winning reservation (if any)
// is released. No coins were debited, so balances are untouched.
func (s *AuctionService) CancelAuction(auctionID uint) (*models.Auction, error) {
	var auction *models.Auction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		auction, err = s.auctions.GetForUpdate(tx, auctionID)
		if err != nil {
			return err
		}
		if auction.Status != domain.AuctionStatusActive {
			return ErrAuctionNotActive
		}
		if auction.WinningBidID != nil {
			bid, err := s.auctions.GetBid(tx, *auction.WinningBidID)
			if err != nil {
				return err
			}
			bid.Status = domain.BidStatusRefunded
			if err := s.auctions.SaveBid(tx, bid); err != nil {
				return err
			}
		}
		now := time.Now()
		auction.Status = domain.AuctionStatusCancelled
		auction.ClosedAt = &now
		return s.auctions.Save(tx, auction)
	})
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.PublishAuctionClosed(context.Background(), auction.ID, auction.Status, 0)
	}
	return auction, nil
}

// Run drives the closer until ctx is cancelled.
func (s *AuctionService) Run(ctx context.Context) {
	interval := s.cfg.CloseInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CloseDue(ctx)
		}
	}
}
