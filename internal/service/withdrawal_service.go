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
	"github.com/digisapp/exa-platform/pkg/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	ErrWithdrawalTooSmall = errors.New("withdrawal below minimum")
	ErrWithdrawalClosed   = errors.New("withdrawal already resolved")
)

// MinWithdrawalCoins is the smallest cash-out a model can request.
const MinWithdrawalCoins = 100

// CoinCashOutCents is the payout value of one coin.
const CoinCashOutCents = 10

// WithdrawalService converts a model's earned coins to cash. Coins are
// debited up-front inside the same transaction that records the withdrawal;
// a failed payout refunds them through the ledger.
type WithdrawalService struct {
	cfg         *config.PaymentConfig
	db          *gorm.DB
	withdrawals *repository.WithdrawalRepository
	ledger      *repository.LedgerRepository
	provider    payment.Provider
	log         zerolog.Logger
}

func NewWithdrawalService(
	cfg *config.PaymentConfig,
	db *gorm.DB,
	withdrawals *repository.WithdrawalRepository,
	ledger *repository.LedgerRepository,
	provider payment.Provider,
	log zerolog.Logger,
) *WithdrawalService {
	return &WithdrawalService{cfg: cfg, db: db, withdrawals: withdrawals, ledger: ledger, provider: provider, log: log}
}

// Request debits the coins and hands the payout to the provider. The debit
// commits before the provider call so a crash can never pay out un-debited
// coins; a provider failure refunds immediately.
func (s *WithdrawalService) Request(ctx context.Context, actor *models.Actor, coins int64, phoneNumber string) (*models.Withdrawal, error) {
	if coins < MinWithdrawalCoins {
		return nil, ErrWithdrawalTooSmall
	}
	w := &models.Withdrawal{
		ActorID:     actor.ID,
		OrderID:     uuid.NewString(),
		Coins:       coins,
		AmountCents: coins * CoinCashOutCents,
		PhoneNumber: phoneNumber,
		Status:      domain.WithdrawalStatusPending,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ref := fmt.Sprintf("withdrawal:%s", w.OrderID)
		if err := s.ledger.ApplyDelta(tx, actor.Role, actor.ID, -coins, domain.ActionWithdrawal, ref, ""); err != nil {
			if errors.Is(err, repository.ErrInsufficientBalance) {
				balance, balErr := s.ledger.LockBalance(tx, actor.Role, actor.ID)
				if balErr != nil {
					return balErr
				}
				return &InsufficientBalanceError{Required: coins, Balance: balance, Available: balance}
			}
			return err
		}
		return s.withdrawals.Create(tx, w)
	})
	if err != nil {
		return nil, err
	}
	providerRef, err := s.provider.InitiatePayout(ctx, payment.PayoutRequest{
		OrderID:     w.OrderID,
		AmountCents: w.AmountCents,
		Currency:    "USD",
		PhoneNumber: phoneNumber,
		WebhookURL:  s.cfg.WebhookBaseURL + "/api/v1/webhooks/withdrawal",
	})
	if err != nil {
		s.log.Error().Err(err).Str("order_id", w.OrderID).Msg("payout initiation failed, refunding")
		if failErr := s.resolve(w.OrderID, domain.WithdrawalStatusFailed, ""); failErr != nil {
			return nil, failErr
		}
		return nil, err
	}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := s.withdrawals.GetForUpdate(tx, w.OrderID)
		if err != nil {
			return err
		}
		locked.ProviderRef = providerRef
		*w = *locked
		return s.withdrawals.Save(tx, locked)
	}); err != nil {
		return nil, err
	}
	return w, nil
}

// WithdrawalWebhook is the provider's payout callback payload.
type WithdrawalWebhook struct {
	OrderID string `json:"order_id" binding:"required"`
	Status  string `json:"status" binding:"required"` // COMPLETED | FAILED
	Ref     string `json:"reference"`
}

// HandleWebhook resolves a pending withdrawal. Duplicate deliveries are
// no-ops; a FAILED payout refunds the coins in the same transaction.
func (s *WithdrawalService) HandleWebhook(rawBody []byte, signature string, ev WithdrawalWebhook) error {
	if !s.provider.VerifyWebhookSignature(rawBody, signature) {
		return ErrBadWebhook
	}
	switch ev.Status {
	case domain.WithdrawalStatusCompleted, domain.WithdrawalStatusFailed:
		return s.resolve(ev.OrderID, ev.Status, ev.Ref)
	}
	s.log.Warn().Str("order_id", ev.OrderID).Str("status", ev.Status).Msg("unknown payout status")
	return nil
}

func (s *WithdrawalService) resolve(orderID, status, providerRef string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		w, err := s.withdrawals.GetForUpdate(tx, orderID)
		if err != nil {
			return err
		}
		if w.Status != domain.WithdrawalStatusPending {
			return nil
		}
		if status == domain.WithdrawalStatusFailed {
			var actor models.Actor
			if err := tx.First(&actor, w.ActorID).Error; err != nil {
				return err
			}
			ref := fmt.Sprintf("withdrawal:%s", w.OrderID)
			if err := s.ledger.ApplyDelta(tx, actor.Role, actor.ID, w.Coins, domain.ActionWithdrawalRefund, ref, ""); err != nil {
				return err
			}
		}
		now := time.Now()
		w.Status = status
		w.CompletedAt = &now
		if providerRef != "" {
			w.ProviderRef = providerRef
		}
		return s.withdrawals.Save(tx, w)
	})
}

func (s *WithdrawalService) ListByActor(actorID uint, limit, offset int) ([]models.Withdrawal, error) {
	return s.withdrawals.ListByActor(actorID, limit, offset)
}
