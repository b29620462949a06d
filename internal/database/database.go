package database

import (
	"github.com/digisapp/exa-platform/config"
	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
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
	)
}

// SeedAdmin creates the default admin actor if none exists.
func SeedAdmin(db *gorm.DB) {
	var count int64
	db.Model(&models.Actor{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("change-me-now"), bcrypt.DefaultCost)
	if err != nil {
		return
	}
	db.Create(&models.Actor{
		Email:        "admin@exa.local",
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	})
}

// SeedCoinPackages inserts the default coin packages on an empty table.
func SeedCoinPackages(db *gorm.DB) {
	var count int64
	db.Model(&models.CoinPackage{}).Count(&count)
	if count > 0 {
		return
	}
	db.Create(&[]models.CoinPackage{
		{Name: "Starter", Coins: 100, PriceCents: 999, Currency: "USD", IsActive: true},
		{Name: "Plus", Coins: 550, PriceCents: 4999, Currency: "USD", IsActive: true},
		{Name: "Pro", Coins: 1200, PriceCents: 9999, Currency: "USD", IsActive: true},
	})
}
