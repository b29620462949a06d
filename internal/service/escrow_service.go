package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/models"
	"github.com/digisapp/exa-platform/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	ErrInvalidServiceType = errors.New("invalid service type")
	ErrInvalidDuration    = errors.New("duration must be at least one hour")
	ErrBookingNotPending  = errors.New("booking is not pending")
	ErrBookingNotCounter  = errors.New("booking has no counter offer")
	ErrBookingNotAccepted = errors.New("booking is not accepted")
	ErrBookingClosed      = errors.New("booking already resolved")
	ErrSlotUnavailable    = errors.New("availability slot is not open")
	ErrNotAcceptingWork   = errors.New("model is not accepting new requests")
)

// InsufficientBalanceError carries the balance detail returned to clients as
// a 402-style payload.
type InsufficientBalanceError struct {
	Required  int64 `json:"required"`
	Balance   int64 `json:"balance"`
	Available int64 `json:"available"`
	Pending   int64 `json:"pending"`
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient coins: required %d, available %d", e.Required, e.Available)
}

// EscrowService implements the coin reservation and settlement rules for
// bookings. Every path that moves coins runs inside one database
// transaction so the balance and the ledger stay consistent.
type EscrowService struct {
	db       *gorm.DB
	ledger   *repository.LedgerRepository
	bookings *repository.BookingRepository
	slots    *repository.AvailabilityRepository
	log      zerolog.Logger
}

func NewEscrowService(
	db *gorm.DB,
	ledger *repository.LedgerRepository,
	bookings *repository.BookingRepository,
	slots *repository.AvailabilityRepository,
	log zerolog.Logger,
) *EscrowService {
	return &EscrowService{db: db, ledger: ledger, bookings: bookings, slots: slots, log: log}
}

// QuoteBooking derives the frozen rate and total from the model's published
// rate card. Hourly services multiply by duration; flat services charge the
// rate once; OTHER uses the cheapest defined hourly rate.
func QuoteBooking(model *models.ModelProfile, serviceType string, durationHours int) (rate, total int64, err error) {
	switch {
	case domain.IsHourlyService(serviceType):
		if durationHours < 1 {
			return 0, 0, ErrInvalidDuration
		}
		rate = model.HourlyRate(serviceType)
		total = rate * int64(durationHours)
	case serviceType == domain.ServiceMeetGreet:
		rate = model.MeetGreetFlatRate
		total = rate
	default:
		return 0, 0, ErrInvalidServiceType
	}
	return rate, total, nil
}

// Availability is the reservation calculator's view of a client balance.
type Availability struct {
	Balance   int64
	Pending   int64
	Available int64
}

// availability computes the spendable balance inside tx with the client's
// profile row locked.
func (s *EscrowService) availability(tx *gorm.DB, role string, clientActorID uint) (*Availability, error) {
	balance, err := s.ledger.LockBalance(tx, role, clientActorID)
	if err != nil {
		return nil, err
	}
	pending, err := s.bookings.SumOpenByClient(tx, clientActorID)
	if err != nil {
		return nil, err
	}
	return &Availability{Balance: balance, Pending: pending, Available: balance - pending}, nil
}

// Availability exposes the reservation view without holding locks.
func (s *EscrowService) Availability(role string, clientActorID uint) (*Availability, error) {
	var out *Availability
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = s.availability(tx, role, clientActorID)
		return err
	})
	return out, err
}

// CreateBooking freezes the quote and inserts the booking, holding the
// client's profile row lock across the availability check so two concurrent
// requests cannot both spend the same coins.
func (s *EscrowService) CreateBooking(client *models.Actor, model *models.ModelProfile, serviceType string, durationHours int, eventDate time.Time, location, notes string, slotID *uint) (*models.Booking, error) {
	if !model.AcceptNewRequests || !model.IsActive {
		return nil, ErrNotAcceptingWork
	}
	rate, total, err := QuoteBooking(model, serviceType, durationHours)
	if err != nil {
		return nil, err
	}
	booking := &models.Booking{
		ModelID:       model.ID,
		ClientActorID: client.ID,
		ServiceType:   serviceType,
		DurationHours: durationHours,
		QuotedRate:    rate,
		TotalCoins:    total,
		EventDate:     eventDate,
		Location:      location,
		Notes:         notes,
		SlotID:        slotID,
		Status:        domain.BookingStatusPending,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if slotID != nil {
			slot, err := s.slots.GetByID(*slotID)
			if err != nil || slot.ModelID != model.ID || slot.Status != domain.SlotStatusOpen {
				return ErrSlotUnavailable
			}
		}
		avail, err := s.availability(tx, client.Role, client.ID)
		if err != nil {
			return err
		}
		if avail.Available < total {
			return &InsufficientBalanceError{
				Required:  total,
				Balance:   avail.Balance,
				Available: avail.Available,
				Pending:   avail.Pending,
			}
		}
		return s.bookings.Create(tx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// AcceptBooking moves the frozen total from the client's balance into escrow.
// At most one escrow per booking; insufficient balance at this point is
// surfaced the same way as at creation.
func (s *EscrowService) AcceptBooking(modelID, bookingID uint) (*models.Booking, error) {
	var booking *models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookings.GetForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.ModelID != modelID {
			return gorm.ErrRecordNotFound
		}
		if booking.Status != domain.BookingStatusPending {
			return ErrBookingNotPending
		}
		return s.escrow(tx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// escrow debits the client and marks the booking accepted. Caller holds the
// booking row lock.
func (s *EscrowService) escrow(tx *gorm.DB, booking *models.Booking) error {
	client, err := s.clientActor(tx, booking.ClientActorID)
	if err != nil {
		return err
	}
	ref := fmt.Sprintf("booking:%d", booking.ID)
	if err := s.ledger.ApplyDelta(tx, client.Role, client.ID, -booking.TotalCoins, domain.ActionBookingEscrow, ref, ""); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			avail, availErr := s.availability(tx, client.Role, client.ID)
			if availErr != nil {
				return availErr
			}
			s.log.Warn().Uint("booking_id", booking.ID).Int64("required", booking.TotalCoins).
				Int64("available", avail.Available).Msg("balance dropped between request and acceptance")
			return &InsufficientBalanceError{
				Required:  booking.TotalCoins,
				Balance:   avail.Balance,
				Available: avail.Available,
				Pending:   avail.Pending,
			}
		}
		return err
	}
	now := time.Now()
	booking.Status = domain.BookingStatusAccepted
	booking.EscrowedAt = &now
	if err := s.bookings.Save(tx, booking); err != nil {
		return err
	}
	if booking.SlotID != nil {
		if err := s.slots.SetStatus(tx, *booking.SlotID, domain.SlotStatusBooked); err != nil {
			return err
		}
	}
	return nil
}

// DeclineBooking releases the soft reservation; no coins were moved.
func (s *EscrowService) DeclineBooking(modelID, bookingID uint) (*models.Booking, error) {
	return s.transition(bookingID, func(b *models.Booking) error {
		if b.ModelID != modelID {
			return gorm.ErrRecordNotFound
		}
		if b.Status != domain.BookingStatusPending && b.Status != domain.BookingStatusCounter {
			return ErrBookingNotPending
		}
		b.Status = domain.BookingStatusDeclined
		return nil
	})
}

// CounterBooking replaces the frozen total with the model's proposal. The
// countered amount now backs the client's reservation.
func (s *EscrowService) CounterBooking(modelID, bookingID uint, newTotal int64, note string) (*models.Booking, error) {
	if newTotal < 1 {
		return nil, ErrInvalidServiceType
	}
	return s.transition(bookingID, func(b *models.Booking) error {
		if b.ModelID != modelID {
			return gorm.ErrRecordNotFound
		}
		if b.Status != domain.BookingStatusPending {
			return ErrBookingNotPending
		}
		b.Status = domain.BookingStatusCounter
		b.TotalCoins = newTotal
		b.CounterNote = note
		return nil
	})
}

// AcceptCounter is the client committing to the model's counter offer; it
// escrows the countered total.
func (s *EscrowService) AcceptCounter(clientActorID, bookingID uint) (*models.Booking, error) {
	var booking *models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookings.GetForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.ClientActorID != clientActorID {
			return gorm.ErrRecordNotFound
		}
		if booking.Status != domain.BookingStatusCounter {
			return ErrBookingNotCounter
		}
		return s.escrow(tx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// DeclineCounter lets the client walk away from a counter offer.
func (s *EscrowService) DeclineCounter(clientActorID, bookingID uint) (*models.Booking, error) {
	return s.transition(bookingID, func(b *models.Booking) error {
		if b.ClientActorID != clientActorID {
			return gorm.ErrRecordNotFound
		}
		if b.Status != domain.BookingStatusCounter {
			return ErrBookingNotCounter
		}
		b.Status = domain.BookingStatusDeclined
		return nil
	})
}

// CompleteBooking resolves escrow to a payout for the model.
func (s *EscrowService) CompleteBooking(clientActorID, bookingID uint) (*models.Booking, error) {
	var booking *models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookings.GetForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.ClientActorID != clientActorID {
			return gorm.ErrRecordNotFound
		}
		if booking.Status != domain.BookingStatusAccepted {
			return ErrBookingNotAccepted
		}
		return s.settle(tx, booking, domain.BookingStatusCompleted)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// NoShowBooking forfeits the escrow to the model when the client does not
// turn up.
func (s *EscrowService) NoShowBooking(modelID, bookingID uint) (*models.Booking, error) {
	var booking *models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookings.GetForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.ModelID != modelID {
			return gorm.ErrRecordNotFound
		}
		if booking.Status != domain.BookingStatusAccepted {
			return ErrBookingNotAccepted
		}
		return s.settle(tx, booking, domain.BookingStatusNoShow)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking may be called by either party. An escrowed booking refunds
// the client; an open one just lapses.
func (s *EscrowService) CancelBooking(actorID uint, bookingID uint) (*models.Booking, error) {
	var booking *models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookings.GetForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		var model models.ModelProfile
		if err := tx.First(&model, booking.ModelID).Error; err != nil {
			return err
		}
		if booking.ClientActorID != actorID && model.ActorID != actorID {
			return gorm.ErrRecordNotFound
		}
		switch booking.Status {
		case domain.BookingStatusPending, domain.BookingStatusCounter:
			booking.Status = domain.BookingStatusCancelled
			return s.bookings.Save(tx, booking)
		case domain.BookingStatusAccepted:
			return s.settleRefund(tx, booking, domain.BookingStatusCancelled)
		}
		return ErrBookingClosed
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// settle pays the escrowed coins out to the model and closes the booking.
func (s *EscrowService) settle(tx *gorm.DB, booking *models.Booking, status string) error {
	var model models.ModelProfile
	if err := tx.First(&model, booking.ModelID).Error; err != nil {
		return err
	}
	ref := fmt.Sprintf("booking:%d", booking.ID)
	if err := s.ledger.ApplyDelta(tx, domain.RoleModel, model.ActorID, booking.TotalCoins, domain.ActionBookingPayout, ref, ""); err != nil {
		return err
	}
	now := time.Now()
	booking.Status = status
	booking.SettledAt = &now
	return s.bookings.Save(tx, booking)
}

// settleRefund returns the escrowed coins to the client and closes the
// booking, releasing any slot it held.
func (s *EscrowService) settleRefund(tx *gorm.DB, booking *models.Booking, status string) error {
	client, err := s.clientActor(tx, booking.ClientActorID)
	if err != nil {
		return err
	}
	ref := fmt.Sprintf("booking:%d", booking.ID)
	if err := s.ledger.ApplyDelta(tx, client.Role, client.ID, booking.TotalCoins, domain.ActionBookingRefund, ref, ""); err != nil {
		return err
	}
	now := time.Now()
	booking.Status = status
	booking.SettledAt = &now
	if err := s.bookings.Save(tx, booking); err != nil {
		return err
	}
	if booking.SlotID != nil {
		if err := s.slots.SetStatus(tx, *booking.SlotID, domain.SlotStatusOpen); err != nil {
			return err
		}
	}
	return nil
}

// transition applies a plain status change (no coin movement) under the
// booking row lock.
func (s *EscrowService) transition(bookingID uint, mutate func(*models.Booking) error) (*models.Booking, error) {
	var booking *models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = s.bookings.GetForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if err := mutate(booking); err != nil {
			return err
		}
		return s.bookings.Save(tx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *EscrowService) clientActor(tx *gorm.DB, actorID uint) (*models.Actor, error) {
	var a models.Actor
	if err := tx.First(&a, actorID).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
