package repository

import (
	"time"

	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/models"

	"gorm.io/gorm"
)

type AuctionRepository struct {
	db *gorm.DB
}

func NewAuctionRepository(db *gorm.DB) *AuctionRepository {
	return &AuctionRepository{db: db}
}

func (r *AuctionRepository) Create(a *models.Auction) error {
	return r.db.Create(a).Error
}

func (r *AuctionRepository) GetByID(id uint) (*models.Auction, error) {
	var a models.Auction
	if err := r.db.Preload("Model").Preload("WinningBid").First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetForUpdate loads an auction with its row locked; every bid and close
// transition goes through this so current_bid moves atomically.
func (r *AuctionRepository) GetForUpdate(tx *gorm.DB, id uint) (*models.Auction, error) {
	var a models.Auction
	if err := forUpdate(tx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AuctionRepository) Save(tx *gorm.DB, a *models.Auction) error {
	return tx.Save(a).Error
}

func (r *AuctionRepository) ListActive(limit, offset int) ([]models.Auction, error) {
	var list []models.Auction
	err := r.db.Preload("Model").
		Where("status = ?", domain.AuctionStatusActive).
		Order("ends_at ASC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// ListDue returns ACTIVE auctions whose end time has passed; the closer
// settles each one separately.
func (r *AuctionRepository) ListDue(now time.Time, limit int) ([]models.Auction, error) {
	var list []models.Auction
	err := r.db.Where("status = ? AND ends_at <= ?", domain.AuctionStatusActive, now).
		Order("ends_at ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *AuctionRepository) CreateBid(tx *gorm.DB, b *models.AuctionBid) error {
	return tx.Create(b).Error
}

func (r *AuctionRepository) SaveBid(tx *gorm.DB, b *models.AuctionBid) error {
	return tx.Save(b).Error
}

func (r *AuctionRepository) GetBid(tx *gorm.DB, id uint) (*models.AuctionBid, error) {
	var b models.AuctionBid
	if err := tx.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *AuctionRepository) ListBids(auctionID uint, limit, offset int) ([]models.AuctionBid, error) {
	var list []models.AuctionBid
	err := r.db.Preload("Bidder").
		Where("auction_id = ?", auctionID).
		Order("amount DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// SumWinningEscrow totals the bidder's reserved coins across all auctions
// where they currently hold the winning bid.
func (r *AuctionRepository) SumWinningEscrow(tx *gorm.DB, bidderActorID uint) (int64, error) {
	var total int64
	err := tx.Model(&models.AuctionBid{}).
		Where("bidder_actor_id = ? AND status = ?", bidderActorID, domain.BidStatusWinning).
		Select("COALESCE(SUM(escrow_amount), 0)").
		Scan(&total).Error
	return total, err
}
