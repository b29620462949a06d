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
	ErrPackageUnavailable = errors.New("coin package is not available")
	ErrBadWebhook         = errors.New("webhook signature mismatch")
)

// PaymentService sells coin packages. Purchases go out to the hosted
// checkout and coins are credited only when the provider webhook confirms,
// idempotent on the provider reference.
type PaymentService struct {
	cfg      *config.PaymentConfig
	db       *gorm.DB
	payments *repository.PaymentRepository
	ledger   *repository.LedgerRepository
	provider payment.Provider
	log      zerolog.Logger
}

func NewPaymentService(
	cfg *config.PaymentConfig,
	db *gorm.DB,
	payments *repository.PaymentRepository,
	ledger *repository.LedgerRepository,
	provider payment.Provider,
	log zerolog.Logger,
) *PaymentService {
	return &PaymentService{cfg: cfg, db: db, payments: payments, ledger: ledger, provider: provider, log: log}
}

func (s *PaymentService) ListPackages() ([]models.CoinPackage, error) {
	return s.payments.ListPackages()
}

// InitiatePurchase creates a pending payment and returns the checkout URL.
func (s *PaymentService) InitiatePurchase(ctx context.Context, actor *models.Actor, packageID uint) (*models.Payment, string, error) {
	pkg, err := s.payments.GetPackage(packageID)
	if err != nil {
		return nil, "", err
	}
	if !pkg.IsActive {
		return nil, "", ErrPackageUnavailable
	}
	orderID := uuid.NewString()
	resp, err := s.provider.InitiateCheckout(ctx, payment.CheckoutRequest{
		OrderID:     orderID,
		AmountCents: pkg.PriceCents,
		Currency:    pkg.Currency,
		Description: fmt.Sprintf("%s (%d coins)", pkg.Name, pkg.Coins),
		CustomerID:  actor.ID,
		WebhookURL:  s.cfg.WebhookBaseURL + "/api/v1/webhooks/payment",
		ExpiresIn:   s.cfg.PaymentExpiry,
	})
	if err != nil {
		return nil, "", err
	}
	p := &models.Payment{
		ActorID:        actor.ID,
		PackageID:      pkg.ID,
		Coins:          pkg.Coins,
		AmountCents:    pkg.PriceCents,
		Currency:       pkg.Currency,
		Provider:       "checkout",
		ProviderRef:    resp.Reference,
		Status:         domain.PaymentStatusPending,
		IdempotencyKey: orderID,
		ExpiresAt:      &resp.ExpiresAt,
	}
	if err := s.payments.Create(p); err != nil {
		return nil, "", err
	}
	return p, resp.CheckoutURL, nil
}

// WebhookEvent is the provider's callback payload.
type WebhookEvent struct {
	Reference string `json:"reference" binding:"required"`
	Status    string `json:"status" binding:"required"` // COMPLETED | FAILED | EXPIRED
}

// HandleWebhook settles a payment from the provider callback. Replayed or
// duplicate deliveries are no-ops: the payment row is locked and coins are
// credited only on the PENDING -> COMPLETED edge.
func (s *PaymentService) HandleWebhook(rawBody []byte, signature string, ev WebhookEvent) error {
	if !s.provider.VerifyWebhookSignature(rawBody, signature) {
		return ErrBadWebhook
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		p, err := s.payments.GetForUpdate(tx, ev.Reference)
		if err != nil {
			return err
		}
		if p.Status != domain.PaymentStatusPending {
			s.log.Info().Str("ref", ev.Reference).Str("status", p.Status).Msg("webhook replay ignored")
			return nil
		}
		now := time.Now()
		switch ev.Status {
		case domain.PaymentStatusCompleted:
			var actor models.Actor
			if err := tx.First(&actor, p.ActorID).Error; err != nil {
				return err
			}
			ref := fmt.Sprintf("payment:%d", p.ID)
			if err := s.ledger.ApplyDelta(tx, actor.Role, actor.ID, p.Coins, domain.ActionCoinPurchase, ref, ""); err != nil {
				return err
			}
			p.Status = domain.PaymentStatusCompleted
			p.CompletedAt = &now
		case domain.PaymentStatusFailed:
			p.Status = domain.PaymentStatusFailed
		case domain.PaymentStatusExpired:
			p.Status = domain.PaymentStatusExpired
		default:
			s.log.Warn().Str("ref", ev.Reference).Str("status", ev.Status).Msg("unknown webhook status")
			return nil
		}
		return s.payments.Save(tx, p)
	})
}

func (s *PaymentService) ListByActor(actorID uint, limit, offset int) ([]models.Payment, error) {
	return s.payments.ListByActor(actorID, limit, offset)
}
