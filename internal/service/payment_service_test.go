package service

import (
	"context"
	"testing"
	"time"

	"github.com/digisapp/exa-platform/config"
	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/models"
	"github.com/digisapp/exa-platform/internal/repository"
	"github.com/digisapp/exa-platform/pkg/payment"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPaymentService(db *gorm.DB) *PaymentService {
	cfg := &config.PaymentConfig{
		WebhookBaseURL: "https://api.test.local",
		PaymentExpiry:  15 * time.Minute,
	}
	return NewPaymentService(
		cfg,
		db,
		repository.NewPaymentRepository(db),
		repository.NewLedgerRepository(db),
		&payment.StubProvider{},
		zerolog.Nop(),
	)
}

func seedPackage(t *testing.T, db *gorm.DB, active bool) *models.CoinPackage {
	t.Helper()
	pkg := &models.CoinPackage{
		Name:       "Starter",
		Coins:      500,
		PriceCents: 999,
		Currency:   "USD",
		IsActive:   active,
	}
	require.NoError(t, db.Create(pkg).Error)
	return pkg
}

func TestInitiatePurchaseCreatesPendingPayment(t *testing.T) {
	db := testDB(t)
	svc := newPaymentService(db)
	fan := newFan(t, db, 0)
	pkg := seedPackage(t, db, true)

	p, checkoutURL, err := svc.InitiatePurchase(context.Background(), fan, pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, p.Status)
	assert.Equal(t, int64(500), p.Coins)
	assert.Contains(t, p.ProviderRef, "stub_")
	assert.NotEmpty(t, checkoutURL)

	// Nothing is credited until the webhook lands.
	assert.Equal(t, int64(0), balanceOf(t, db, domain.RoleFan, fan.ID))
}

func TestInitiatePurchaseInactivePackage(t *testing.T) {
	db := testDB(t)
	svc := newPaymentService(db)
	fan := newFan(t, db, 0)
	pkg := seedPackage(t, db, false)

	_, _, err := svc.InitiatePurchase(context.Background(), fan, pkg.ID)
	require.ErrorIs(t, err, ErrPackageUnavailable)
}

func TestWebhookCreditsOnce(t *testing.T) {
	db := testDB(t)
	svc := newPaymentService(db)
	fan := newFan(t, db, 100)
	pkg := seedPackage(t, db, true)

	p, _, err := svc.InitiatePurchase(context.Background(), fan, pkg.ID)
	require.NoError(t, err)

	ev := WebhookEvent{Reference: p.ProviderRef, Status: domain.PaymentStatusCompleted}
	require.NoError(t, svc.HandleWebhook([]byte("{}"), "stub_sig", ev))
	assert.Equal(t, int64(600), balanceOf(t, db, domain.RoleFan, fan.ID))

	// Replay delivery is a no-op.
	require.NoError(t, svc.HandleWebhook([]byte("{}"), "stub_sig", ev))
	assert.Equal(t, int64(600), balanceOf(t, db, domain.RoleFan, fan.ID))
	assert.Len(t, ledgerRows(t, db, fan.ID, domain.ActionCoinPurchase), 1)

	reloaded, err := svc.payments.GetByProviderRef(p.ProviderRef)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, reloaded.Status)
	require.NotNil(t, reloaded.CompletedAt)
}

func TestWebhookFailedAndExpired(t *testing.T) {
	db := testDB(t)
	svc := newPaymentService(db)
	fan := newFan(t, db, 0)
	pkg := seedPackage(t, db, true)

	for _, status := range []string{domain.PaymentStatusFailed, domain.PaymentStatusExpired} {
		p, _, err := svc.InitiatePurchase(context.Background(), fan, pkg.ID)
		require.NoError(t, err)

		ev := WebhookEvent{Reference: p.ProviderRef, Status: status}
		require.NoError(t, svc.HandleWebhook([]byte("{}"), "stub_sig", ev))

		reloaded, err := svc.payments.GetByProviderRef(p.ProviderRef)
		require.NoError(t, err)
		assert.Equal(t, status, reloaded.Status)

		// A late COMPLETED after the payment closed credits nothing.
		ev.Status = domain.PaymentStatusCompleted
		require.NoError(t, svc.HandleWebhook([]byte("{}"), "stub_sig", ev))
		assert.Equal(t, int64(0), balanceOf(t, db, domain.RoleFan, fan.ID))
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	db := testDB(t)
	svc := newPaymentService(db)

	ev := WebhookEvent{Reference: "stub_x", Status: domain.PaymentStatusCompleted}
	err := svc.HandleWebhook([]byte("{}"), "forged", ev)
	require.ErrorIs(t, err, ErrBadWebhook)
}

func TestWebhookUnknownStatusIgnored(t *testing.T) {
	db := testDB(t)
	svc := newPaymentService(db)
	fan := newFan(t, db, 0)
	pkg := seedPackage(t, db, true)

	p, _, err := svc.InitiatePurchase(context.Background(), fan, pkg.ID)
	require.NoError(t, err)

	ev := WebhookEvent{Reference: p.ProviderRef, Status: "PROCESSING"}
	require.NoError(t, svc.HandleWebhook([]byte("{}"), "stub_sig", ev))

	reloaded, err := svc.payments.GetByProviderRef(p.ProviderRef)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, reloaded.Status)
}
