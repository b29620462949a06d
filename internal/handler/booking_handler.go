package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/digisapp/exa-platform/internal/middleware"
	"github.com/digisapp/exa-platform/internal/models"
	"github.com/digisapp/exa-platform/internal/repository"
	"github.com/digisapp/exa-platform/internal/service"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	escrow      *service.EscrowService
	bookingRepo *repository.BookingRepository
	modelRepo   *repository.ModelRepository
	actorRepo   *repository.ActorRepository
	notifier    *service.NotificationService
}

func NewBookingHandler(
	escrow *service.EscrowService,
	bookingRepo *repository.BookingRepository,
	modelRepo *repository.ModelRepository,
	actorRepo *repository.ActorRepository,
	notifier *service.NotificationService,
) *BookingHandler {
	return &BookingHandler{
		escrow:      escrow,
		bookingRepo: bookingRepo,
		modelRepo:   modelRepo,
		actorRepo:   actorRepo,
		notifier:    notifier,
	}
}

type createBookingRequest struct {
	ModelID       uint   `json:"model_id" binding:"required"`
	ServiceType   string `json:"service_type" binding:"required,oneof=PHOTOSHOOT PROMO EVENT MEET_GREET OTHER"`
	DurationHours int    `json:"duration_hours"`
	EventDate     string `json:"event_date" binding:"required"` // RFC3339
	Location      string `json:"location"`
	Notes         string `json:"notes"`
	SlotID        *uint  `json:"slot_id"`
}

// Create files a booking request. The quote is frozen from the model's rate
// card and the total is checked against the client's available (not just
// current) balance.
func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	eventDate, err := time.Parse(time.RFC3339, req.EventDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event_date (use RFC3339)"})
		return
	}
	client, err := h.actorRepo.GetByID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	model, err := h.modelRepo.GetByID(req.ModelID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	booking, err := h.escrow.CreateBooking(client, model, req.ServiceType, req.DurationHours, eventDate, req.Location, req.Notes, req.SlotID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.notifier.Notify(c.Request.Context(), model.ActorID, "booking_request",
		"New booking request",
		fmt.Sprintf("%s requested %s for %d coins", client.Username, booking.ServiceType, booking.TotalCoins),
		map[string]string{"booking_id": strconv.FormatUint(uint64(booking.ID), 10)})
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	limit, offset := paginate(c)
	list, err := h.bookingRepo.ListByClient(middleware.GetActorID(c), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

func (h *BookingHandler) ListForModel(c *gin.Context) {
	model, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	limit, offset := paginate(c)
	list, err := h.bookingRepo.ListByModel(model.ID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	booking, err := h.bookingRepo.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	actorID := middleware.GetActorID(c)
	if booking.ClientActorID != actorID && booking.Model.ActorID != actorID {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// Accept escrows the client's coins and confirms the booking.
func (h *BookingHandler) Accept(c *gin.Context) {
	h.modelAction(c, h.escrow.AcceptBooking, "booking_accepted", "Booking accepted",
		func(b *models.Booking) string {
			return fmt.Sprintf("Your %s booking was accepted; %d coins moved to escrow", b.ServiceType, b.TotalCoins)
		})
}

func (h *BookingHandler) Decline(c *gin.Context) {
	h.modelAction(c, h.escrow.DeclineBooking, "booking_declined", "Booking declined",
		func(b *models.Booking) string {
			return fmt.Sprintf("Your %s booking was declined", b.ServiceType)
		})
}

type counterRequest struct {
	TotalCoins int64  `json:"total_coins" binding:"required,min=1"`
	Note       string `json:"note"`
}

// Counter proposes a different total; the countered amount replaces the
// frozen quote and now backs the client's reservation.
func (h *BookingHandler) Counter(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req counterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	model, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	booking, err := h.escrow.CounterBooking(model.ID, id, req.TotalCoins, req.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.notifier.Notify(c.Request.Context(), booking.ClientActorID, "booking_counter",
		"Counter offer",
		fmt.Sprintf("The model proposed %d coins for your %s booking", booking.TotalCoins, booking.ServiceType),
		map[string]string{"booking_id": strconv.FormatUint(uint64(booking.ID), 10)})
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// Complete releases the escrow to the model.
func (h *BookingHandler) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	booking, err := h.escrow.CompleteBooking(middleware.GetActorID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.notifyModel(c, booking, "booking_completed", "Booking completed",
		fmt.Sprintf("You earned %d coins from a completed %s booking", booking.TotalCoins, booking.ServiceType))
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// NoShow forfeits the escrow to the model.
func (h *BookingHandler) NoShow(c *gin.Context) {
	h.modelAction(c, h.escrow.NoShowBooking, "booking_no_show", "Booking marked no-show",
		func(b *models.Booking) string {
			return fmt.Sprintf("Your %s booking was marked no-show; the escrowed %d coins were forfeited", b.ServiceType, b.TotalCoins)
		})
}

// Cancel works for either side; escrowed bookings refund the client.
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	booking, err := h.escrow.CancelBooking(middleware.GetActorID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// modelAction runs a model-side transition identified by the path ID and
// notifies the client.
func (h *BookingHandler) modelAction(c *gin.Context, fn func(modelID, bookingID uint) (*models.Booking, error), typ, title string, body func(*models.Booking) string) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	model, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	booking, err := fn(model.ID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.notifier.Notify(c.Request.Context(), booking.ClientActorID, typ, title, body(booking),
		map[string]string{"booking_id": strconv.FormatUint(uint64(booking.ID), 10)})
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

func (h *BookingHandler) notifyModel(c *gin.Context, booking *models.Booking, typ, title, body string) {
	model, err := h.modelRepo.GetByID(booking.ModelID)
	if err != nil {
		return
	}
	h.notifier.Notify(c.Request.Context(), model.ActorID, typ, title, body,
		map[string]string{"booking_id": strconv.FormatUint(uint64(booking.ID), 10)})
}
