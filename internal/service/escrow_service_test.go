package service

import (
	"testing"
	"time"

	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteBooking(t *testing.T) {
	model := &models.ModelProfile{
		PhotoshootHourlyRate: 50,
		PromoHourlyRate:      40,
		EventHourlyRate:      60,
		MeetGreetFlatRate:    120,
	}
	tests := []struct {
		name        string
		serviceType string
		duration    int
		wantRate    int64
		wantTotal   int64
		wantErr     error
	}{
		{"photoshoot two hours", domain.ServicePhotoshoot, 2, 50, 100, nil},
		{"promo one hour", domain.ServicePromo, 1, 40, 40, nil},
		{"meet greet ignores duration", domain.ServiceMeetGreet, 0, 120, 120, nil},
		{"other uses cheapest hourly", domain.ServiceOther, 3, 40, 120, nil},
		{"zero duration hourly", domain.ServiceEvent, 0, 0, 0, ErrInvalidDuration},
		{"unknown type", "MASSAGE", 1, 0, 0, ErrInvalidServiceType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, total, err := QuoteBooking(model, tt.serviceType, tt.duration)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRate, rate)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestQuoteBookingOtherWithoutHourlyRates(t *testing.T) {
	model := &models.ModelProfile{MeetGreetFlatRate: 120}
	rate, total, err := QuoteBooking(model, domain.ServiceOther, 2)
	require.NoError(t, err)
	assert.Zero(t, rate)
	assert.Zero(t, total)
}

func TestCreateBookingReservesAgainstPending(t *testing.T) {
	db := testDB(t)
	svc := newEscrowService(db)
	fan := newFan(t, db, 100)
	_, model := newModel(t, db, nil)

	// First booking holds 80 coins without debiting.
	first, err := svc.CreateBooking(fan, model, domain.ServicePromo, 2, time.Now().Add(48*time.Hour), "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(80), first.TotalCoins)
	assert.Equal(t, domain.BookingStatusPending, first.Status)
	assert.Equal(t, int64(100), balanceOf(t, db, domain.RoleFan, fan.ID))

	// 30 more would exceed available = 100 - 80 = 20.
	_, err = svc.CreateBooking(fan, model, domain.ServiceOther, 1, time.Now().Add(72*time.Hour), "", "", nil)
	var insufficient *InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(40), insufficient.Required)
	assert.Equal(t, int64(100), insufficient.Balance)
	assert.Equal(t, int64(80), insufficient.Pending)
	assert.Equal(t, int64(20), insufficient.Available)
}

func TestCreateBookingRespectsAcceptNewRequests(t *testing.T) {
	db := testDB(t)
	svc := newEscrowService(db)
	fan := newFan(t, db, 1000)
	_, model := newModel(t, db, func(m *models.ModelProfile) { m.AcceptNewRequests = false })

	_, err := svc.CreateBooking(fan, model, domain.ServicePromo, 1, time.Now().Add(time.Hour), "", "", nil)
	require.ErrorIs(t, err, ErrNotAcceptingWork)
}

func TestAcceptBookingEscrowsOnce(t *testing.T) {
	db := testDB(t)
	svc := newEscrowService(db)
	fan := newFan(t, db, 200)
	_, model := newModel(t, db, nil)

	booking, err := svc.CreateBooking(fan, model, domain.ServicePhotoshoot, 2, time.Now().Add(24*time.Hour), "studio", "", nil)
	require.NoError(t, err)

	accepted, err := svc.AcceptBooking(model.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusAccepted, accepted.Status)
	require.NotNil(t, accepted.EscrowedAt)
	assert.Equal(t, int64(100), balanceOf(t, db, domain.RoleFan, fan.ID))

	rows := ledgerRows(t, db, fan.ID, domain.ActionBookingEscrow)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(-100), rows[0].Amount)

	// A second accept must not debit again.
	_, err = svc.AcceptBooking(model.ID, booking.ID)
	require.ErrorIs(t, err, ErrBookingNotPending)
	assert.Equal(t, int64(100), balanceOf(t, db, domain.RoleFan, fan.ID))
}

func TestAcceptBookingInsufficientAtAcceptance(t *testing.T) {
	db := testDB(t)
	svc := newEscrowService(db)
	fan := newFan(t, db, 100)
	_, model := newModel(t, db, nil)

	booking, err := svc.CreateBooking(fan, model, domain.ServicePhotoshoot, 2, time.Now().Add(24*time.Hour), "", "", nil)
	require.NoError(t, err)

	// Balance drops between request and acceptance.
	require.NoError(t, db.Model(&models.FanProfile{}).
		Where("actor_id = ?", fan.ID).
		Update("coin_balance", 50).Error)

	_, err = svc.AcceptBooking(model.ID, booking.ID)
	var insufficient *InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(100), insufficient.Required)
	assert.Equal(t, int64(50), insufficient.Balance)

	// Nothing moved and the booking is still pending.
	assert.Equal(t, int64(50), balanceOf(t, db, domain.RoleFan, fan.ID))
	reloaded, err := svc.bookings.GetByID(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, reloaded.Status)
	assert.Empty(t, ledgerRows(t, db, fan.ID, domain.ActionBookingEscrow))
}

func TestCounterOfferReplacesReservation(t *testing.T) {
	db := testDB(t)
	svc := newEscrowService(db)
	brand := newBrand(t, db, 500)
	_, model := newModel(t, db, nil)

	booking, err := svc.CreateBooking(brand, model, domain.ServiceEvent, 2, time.Now().Add(24*time.Hour), "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(120), booking.TotalCoins)

	countered, err := svc.CounterBooking(model.ID, booking.ID, 200, "travel included")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCounter, countered.Status)
	assert.Equal(t, int64(200), countered.TotalCoins)

	// The countered amount now backs the reservation.
	avail, err := svc.Availability(brand.Role, brand.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), avail.Pending)
	assert.Equal(t, int64(300), avail.Available)

	accepted, err := svc.AcceptCounter(brand.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusAccepted, accepted.Status)
	assert.Equal(t, int64(300), balanceOf(t, db, domain.RoleBrand, brand.ID))
}

func TestDeclineCounterClosesWithoutCoins(t *testing.T) {
	db := testDB(t)
	svc := newEscrowService(db)
	fan := newFan(t, db, 500)
	_, model := newModel(t, db, nil)

	booking, err := svc.CreateBooking(fan, model, domain.ServicePromo, 1, time.Now().Add(24*time.Hour), "", "", nil)
	require.NoError(t, err)
	_, err = svc.CounterBooking(model.ID, booking.ID, 90, "")
	require.NoError(t, err)

	declined, err := svc.DeclineCounter(fan.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusDeclined, declined.Status)
	assert.Equal(t, int64(500), balanceOf(t, db, domain.RoleFan, fan.ID))
}

func TestCompleteBookingPaysModel(t *testing.T) {
	db := testDB(t)
	svc := newEscrowService(db)
	fan := newFan(t, db, 300)
	modelActor, model := newModel(t, db, nil)

	booking, err := svc.CreateBooking(fan, model, domain.ServiceMeetGreet, 0, time.Now().Add(24*time.Hour), "", "", nil)
	require.NoError(t, err)
	_, err = svc.AcceptBooking(model.ID, booking.ID)
	require.NoError(t, err)

	completed, err := svc.CompleteBooking(fan.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, completed.Status)
	require.NotNil(t, completed.SettledAt)
	assert.Equal(t, int64(180), balanceOf(t, db, domain.RoleFan, fan.ID))
	assert.Equal(t, int64(120), balanceOf(t, db, domain.RoleModel, modelActor.ID))

	rows := ledgerRows(t, db, modelActor.ID, domain.ActionBookingPayout)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(120), rows[0].Amount)

	// Settling twice is rejected.
	_, err = svc.CompleteBooking(fan.ID, booking.ID)
	require.ErrorIs(t, err, ErrBookingNotAccepted)
}

func TestNoShowForfeitsEscrowToModel(t *testing.T) {
	db := testDB(t)
	svc := newEscrowService(db)
	fan := newFan(t, db, 100)
	modelActor, model := newModel(t, db, nil)

	booking, err := svc.CreateBooking(fan, model, domain.ServicePromo, 2, time.Now().Add(24*time.Hour), "", "", nil)
	require.NoError(t, err)
	_, err = svc.AcceptBooking(model.ID, booking.ID)
	require.NoError(t, err)

	settled, err := svc.NoShowBooking(model.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusNoShow, settled.Status)
	assert.Equal(t, int64(20), balanceOf(t, db, domain.RoleFan, fan.ID))
	assert.Equal(t, int64(80), balanceOf(t, db, domain.RoleModel, modelActor.ID))
}

func TestCancelAcceptedBookingRefundsAndReopensSlot(t *testing.T) {
	db := testDB(t)
	svc := newEscrowService(db)
	fan := newFan(t, db, 200)
	_, model := newModel(t, db, nil)

	slot := &models.AvailabilitySlot{
		ModelID:  model.ID,
		StartsAt: time.Now().Add(24 * time.Hour),
		EndsAt:   time.Now().Add(26 * time.Hour),
		Status:   domain.SlotStatusOpen,
	}
	require.NoError(t, db.Create(slot).Error)

	booking, err := svc.CreateBooking(fan, model, domain.ServicePhotoshoot, 2, time.Now().Add(24*time.Hour), "", "", &slot.ID)
	require.NoError(t, err)
	_, err = svc.AcceptBooking(model.ID, booking.ID)
	require.NoError(t, err)

	var booked models.AvailabilitySlot
	require.NoError(t, db.First(&booked, slot.ID).Error)
	assert.Equal(t, domain.SlotStatusBooked, booked.Status)

	cancelled, err := svc.CancelBooking(fan.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, int64(200), balanceOf(t, db, domain.RoleFan, fan.ID))

	rows := ledgerRows(t, db, fan.ID, domain.ActionBookingRefund)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(100), rows[0].Amount)

	var reopened models.AvailabilitySlot
	require.NoError(t, db.First(&reopened, slot.ID).Error)
	assert.Equal(t, domain.SlotStatusOpen, reopened.Status)
}

func TestCancelPendingBookingMovesNoCoins(t *testing.T) {
	db := testDB(t)
	svc := newEscrowService(db)
	fan := newFan(t, db, 100)
	_, model := newModel(t, db, nil)

	booking, err := svc.CreateBooking(fan, model, domain.ServicePromo, 1, time.Now().Add(24*time.Hour), "", "", nil)
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(fan.ID, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, int64(100), balanceOf(t, db, domain.RoleFan, fan.ID))

	var count int64
	require.NoError(t, db.Model(&models.CoinTransaction{}).Where("actor_id = ?", fan.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCancelResolvedBookingRejected(t *testing.T) {
	db := testDB(t)
	svc := newEscrowService(db)
	fan := newFan(t, db, 200)
	_, model := newModel(t, db, nil)

	booking, err := svc.CreateBooking(fan, model, domain.ServiceMeetGreet, 0, time.Now().Add(24*time.Hour), "", "", nil)
	require.NoError(t, err)
	_, err = svc.AcceptBooking(model.ID, booking.ID)
	require.NoError(t, err)
	_, err = svc.CompleteBooking(fan.ID, booking.ID)
	require.NoError(t, err)

	_, err = svc.CancelBooking(fan.ID, booking.ID)
	require.ErrorIs(t, err, ErrBookingClosed)
}

func TestDeclineReleasesReservation(t *testing.T) {
	db := testDB(t)
	svc := newEscrowService(db)
	fan := newFan(t, db, 100)
	_, model := newModel(t, db, nil)

	booking, err := svc.CreateBooking(fan, model, domain.ServicePromo, 2, time.Now().Add(24*time.Hour), "", "", nil)
	require.NoError(t, err)

	_, err = svc.DeclineBooking(model.ID, booking.ID)
	require.NoError(t, err)

	avail, err := svc.Availability(fan.Role, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), avail.Available)
	assert.Zero(t, avail.Pending)
}

func TestRateEditDoesNotTouchOpenBookings(t *testing.T) {
	db := testDB(t)
	svc := newEscrowService(db)
	fan := newFan(t, db, 500)
	_, model := newModel(t, db, nil)

	booking, err := svc.CreateBooking(fan, model, domain.ServicePhotoshoot, 2, time.Now().Add(24*time.Hour), "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(100), booking.TotalCoins)

	require.NoError(t, db.Model(&models.ModelProfile{}).
		Where("id = ?", model.ID).
		Update("photoshoot_hourly_rate", 999).Error)

	reloaded, err := svc.bookings.GetByID(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), reloaded.TotalCoins)
	assert.Equal(t, int64(50), reloaded.QuotedRate)
}
