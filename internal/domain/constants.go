package domain

const (
	RoleModel = "MODEL"
	RoleFan   = "FAN"
	RoleBrand = "BRAND"
	RoleAdmin = "ADMIN"
)

const (
	BookingStatusPending   = "PENDING"
	BookingStatusCounter   = "COUNTER"
	BookingStatusAccepted  = "ACCEPTED"
	BookingStatusDeclined  = "DECLINED"
	BookingStatusCancelled = "CANCELLED"
	BookingStatusNoShow    = "NO_SHOW"
	BookingStatusCompleted = "COMPLETED"
)

const (
	AuctionStatusActive    = "ACTIVE"
	AuctionStatusSold      = "SOLD"
	AuctionStatusNoSale    = "NO_SALE"
	AuctionStatusCancelled = "CANCELLED"
)

const (
	BidStatusWinning  = "WINNING"
	BidStatusOutbid   = "OUTBID"
	BidStatusRefunded = "REFUNDED"
)

// Service types priced from the model's rate card. Hourly types multiply by
// duration; flat types charge the rate once. OTHER falls back to the cheapest
// defined hourly rate.
const (
	ServicePhotoshoot = "PHOTOSHOOT"
	ServicePromo      = "PROMO"
	ServiceEvent      = "EVENT"
	ServiceMeetGreet  = "MEET_GREET"
	ServiceOther      = "OTHER"
)

const (
	CallStatusPending   = "PENDING"
	CallStatusAccepted  = "ACCEPTED"
	CallStatusDeclined  = "DECLINED"
	CallStatusCancelled = "CANCELLED"
)

const (
	SlotStatusOpen   = "OPEN"
	SlotStatusBooked = "BOOKED"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusExpired   = "EXPIRED"
)

const (
	WithdrawalStatusPending   = "PENDING"
	WithdrawalStatusCompleted = "COMPLETED"
	WithdrawalStatusFailed    = "FAILED"
)

// Ledger actions recorded on coin_transactions.
const (
	ActionCoinPurchase     = "COIN_PURCHASE"
	ActionBookingEscrow    = "BOOKING_ESCROW"
	ActionBookingPayout    = "BOOKING_PAYOUT"
	ActionBookingRefund    = "BOOKING_REFUND"
	ActionAuctionSale      = "AUCTION_SALE"
	ActionAuctionEarning   = "AUCTION_EARNING"
	ActionCallCharge       = "CALL_CHARGE"
	ActionCallEarning      = "CALL_EARNING"
	ActionWithdrawal       = "WITHDRAWAL"
	ActionWithdrawalRefund = "WITHDRAWAL_REFUND"
)

// IsHourlyService reports whether a service type is billed per hour.
func IsHourlyService(serviceType string) bool {
	switch serviceType {
	case ServicePhotoshoot, ServicePromo, ServiceEvent, ServiceOther:
		return true
	}
	return false
}
