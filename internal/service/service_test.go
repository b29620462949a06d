package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/digisapp/exa-platform/config"
	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/models"
	"github.com/digisapp/exa-platform/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Actor{},
		&models.ModelProfile{},
		&models.ModelMedia{},
		&models.FanProfile{},
		&models.BrandProfile{},
		&models.CoinTransaction{},
		&models.CoinPackage{},
		&models.Booking{},
		&models.Auction{},
		&models.AuctionBid{},
		&models.CallRequest{},
		&models.AvailabilitySlot{},
		&models.Payment{},
		&models.Withdrawal{},
		&models.Notification{},
		&models.AuditLog{},
	))
	return db
}

var actorSeq int

func newFan(t *testing.T, db *gorm.DB, balance int64) *models.Actor {
	t.Helper()
	actorSeq++
	actor := &models.Actor{
		Email:    fmt.Sprintf("fan%d@test.local", actorSeq),
		Username: fmt.Sprintf("fan%d", actorSeq),
		Role:     domain.RoleFan,
	}
	require.NoError(t, db.Create(actor).Error)
	require.NoError(t, db.Create(&models.FanProfile{ActorID: actor.ID, CoinBalance: balance}).Error)
	return actor
}

func newBrand(t *testing.T, db *gorm.DB, balance int64) *models.Actor {
	t.Helper()
	actorSeq++
	actor := &models.Actor{
		Email:    fmt.Sprintf("brand%d@test.local", actorSeq),
		Username: fmt.Sprintf("brand%d", actorSeq),
		Role:     domain.RoleBrand,
	}
	require.NoError(t, db.Create(actor).Error)
	require.NoError(t, db.Create(&models.BrandProfile{ActorID: actor.ID, CoinBalance: balance}).Error)
	return actor
}

func newModel(t *testing.T, db *gorm.DB, mutate func(*models.ModelProfile)) (*models.Actor, *models.ModelProfile) {
	t.Helper()
	actorSeq++
	actor := &models.Actor{
		Email:    fmt.Sprintf("model%d@test.local", actorSeq),
		Username: fmt.Sprintf("model%d", actorSeq),
		Role:     domain.RoleModel,
	}
	require.NoError(t, db.Create(actor).Error)
	profile := &models.ModelProfile{
		ActorID:              actor.ID,
		DisplayName:          actor.Username,
		IsActive:             true,
		AppearInSearch:       true,
		AcceptNewRequests:    true,
		PhotoshootHourlyRate: 50,
		PromoHourlyRate:      40,
		EventHourlyRate:      60,
		MeetGreetFlatRate:    120,
		VideoCallFlatRate:    30,
	}
	if mutate != nil {
		mutate(profile)
	}
	require.NoError(t, db.Create(profile).Error)
	return actor, profile
}

func creditModel(t *testing.T, db *gorm.DB, actorID uint, balance int64) {
	t.Helper()
	require.NoError(t, db.Model(&models.ModelProfile{}).
		Where("actor_id = ?", actorID).
		Update("coin_balance", balance).Error)
}

func balanceOf(t *testing.T, db *gorm.DB, role string, actorID uint) int64 {
	t.Helper()
	b, err := repository.NewLedgerRepository(db).Balance(role, actorID)
	require.NoError(t, err)
	return b
}

func ledgerRows(t *testing.T, db *gorm.DB, actorID uint, action string) []models.CoinTransaction {
	t.Helper()
	var rows []models.CoinTransaction
	require.NoError(t, db.Where("actor_id = ? AND action = ?", actorID, action).Find(&rows).Error)
	return rows
}

func newEscrowService(db *gorm.DB) *EscrowService {
	return NewEscrowService(
		db,
		repository.NewLedgerRepository(db),
		repository.NewBookingRepository(db),
		repository.NewAvailabilityRepository(db),
		zerolog.Nop(),
	)
}

func newAuctionService(db *gorm.DB, events EventPublisher) *AuctionService {
	return NewAuctionService(
		db,
		repository.NewLedgerRepository(db),
		repository.NewAuctionRepository(db),
		events,
		config.AuctionConfig{CloseInterval: time.Second, DefaultAntiSnipeMin: 5},
		zerolog.Nop(),
	)
}

func newCallService(db *gorm.DB) *CallService {
	return NewCallService(db, repository.NewLedgerRepository(db), repository.NewCallRequestRepository(db))
}
