package repository

import (
	"errors"

	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientBalance = errors.New("insufficient coin balance")
	ErrNoBalanceProfile    = errors.New("actor has no balance-holding profile")
)

// LedgerRepository owns every coin balance mutation. The balance column and
// the coin_transactions row are always written inside the caller's
// transaction, so the ledger can never diverge from the balance.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func balanceTable(role string) (string, error) {
	switch role {
	case domain.RoleModel:
		return "models", nil
	case domain.RoleFan:
		return "fans", nil
	case domain.RoleBrand:
		return "brands", nil
	}
	return "", ErrNoBalanceProfile
}

// forUpdate adds a row lock where the dialect supports one. The sqlite
// driver used in tests is single-writer and rejects FOR UPDATE.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// LockBalance reads the actor's coin balance with the profile row locked
// for the duration of tx.
func (r *LedgerRepository) LockBalance(tx *gorm.DB, role string, actorID uint) (int64, error) {
	table, err := balanceTable(role)
	if err != nil {
		return 0, err
	}
	var row struct{ CoinBalance int64 }
	result := forUpdate(tx).Table(table).
		Select("coin_balance").
		Where("actor_id = ? AND deleted_at IS NULL", actorID).
		Take(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, ErrNoBalanceProfile
		}
		return 0, result.Error
	}
	return row.CoinBalance, nil
}

// ApplyDelta mutates the balance and appends the matching ledger row in one
// go. A debit that would take the balance negative fails with
// ErrInsufficientBalance and writes nothing.
func (r *LedgerRepository) ApplyDelta(tx *gorm.DB, role string, actorID uint, delta int64, action, reference, metadata string) error {
	balance, err := r.LockBalance(tx, role, actorID)
	if err != nil {
		return err
	}
	if balance+delta < 0 {
		return ErrInsufficientBalance
	}
	table, err := balanceTable(role)
	if err != nil {
		return err
	}
	if err := tx.Table(table).
		Where("actor_id = ? AND deleted_at IS NULL", actorID).
		Update("coin_balance", gorm.Expr("coin_balance + ?", delta)).Error; err != nil {
		return err
	}
	return tx.Create(&models.CoinTransaction{
		ActorID:   actorID,
		Amount:    delta,
		Action:    action,
		Reference: reference,
		Metadata:  metadata,
	}).Error
}

// Balance reads the actor's coin balance without locking.
func (r *LedgerRepository) Balance(role string, actorID uint) (int64, error) {
	table, err := balanceTable(role)
	if err != nil {
		return 0, err
	}
	var row struct{ CoinBalance int64 }
	result := r.db.Table(table).
		Select("coin_balance").
		Where("actor_id = ? AND deleted_at IS NULL", actorID).
		Take(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, ErrNoBalanceProfile
		}
		return 0, result.Error
	}
	return row.CoinBalance, nil
}

func (r *LedgerRepository) ListByActor(actorID uint, limit, offset int) ([]models.CoinTransaction, error) {
	var list []models.CoinTransaction
	err := r.db.Where("actor_id = ?", actorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *LedgerRepository) ListAll(limit, offset int) ([]models.CoinTransaction, error) {
	var list []models.CoinTransaction
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// SumByAction totals ledger amounts for one actor and action, e.g. lifetime
// booking earnings.
func (r *LedgerRepository) SumByAction(actorID uint, action string) (int64, error) {
	var total int64
	err := r.db.Model(&models.CoinTransaction{}).
		Where("actor_id = ? AND action = ?", actorID, action).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
