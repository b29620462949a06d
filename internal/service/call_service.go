package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/models"
	"github.com/digisapp/exa-platform/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrCallNotPending = errors.New("call request is not pending")
	ErrCallNotOffered = errors.New("model does not offer video calls")
)

// CallService prices video call requests from the model's flat rate and
// settles them fan -> model in a single transaction when the model accepts.
// There is no escrow phase: the charge and the earning land together.
type CallService struct {
	db     *gorm.DB
	ledger *repository.LedgerRepository
	calls  *repository.CallRequestRepository
}

func NewCallService(db *gorm.DB, ledger *repository.LedgerRepository, calls *repository.CallRequestRepository) *CallService {
	return &CallService{db: db, ledger: ledger, calls: calls}
}

func (s *CallService) CreateRequest(fan *models.Actor, model *models.ModelProfile, scheduledAt time.Time, message string) (*models.CallRequest, error) {
	if !model.IsActive || !model.AcceptNewRequests {
		return nil, ErrNotAcceptingWork
	}
	if model.VideoCallFlatRate <= 0 {
		return nil, ErrCallNotOffered
	}
	cr := &models.CallRequest{
		ModelID:     model.ID,
		FanActorID:  fan.ID,
		ScheduledAt: scheduledAt,
		TotalCoins:  model.VideoCallFlatRate,
		Message:     message,
		Status:      domain.CallStatusPending,
	}
	if err := s.calls.Create(cr); err != nil {
		return nil, err
	}
	return cr, nil
}

// Accept charges the fan and credits the model atomically. An underfunded
// fan surfaces the same balance payload bookings use.
func (s *CallService) Accept(modelID, callID uint) (*models.CallRequest, error) {
	var cr *models.CallRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		cr, err = s.calls.GetForUpdate(tx, callID)
		if err != nil {
			return err
		}
		if cr.ModelID != modelID {
			return gorm.ErrRecordNotFound
		}
		if cr.Status != domain.CallStatusPending {
			return ErrCallNotPending
		}
		var fan models.Actor
		if err := tx.First(&fan, cr.FanActorID).Error; err != nil {
			return err
		}
		ref := fmt.Sprintf("call:%d", cr.ID)
		if err := s.ledger.ApplyDelta(tx, fan.Role, fan.ID, -cr.TotalCoins, domain.ActionCallCharge, ref, ""); err != nil {
			if errors.Is(err, repository.ErrInsufficientBalance) {
				balance, balErr := s.ledger.LockBalance(tx, fan.Role, fan.ID)
				if balErr != nil {
					return balErr
				}
				return &InsufficientBalanceError{
					Required:  cr.TotalCoins,
					Balance:   balance,
					Available: balance,
				}
			}
			return err
		}
		var model models.ModelProfile
		if err := tx.First(&model, cr.ModelID).Error; err != nil {
			return err
		}
		if err := s.ledger.ApplyDelta(tx, domain.RoleModel, model.ActorID, cr.TotalCoins, domain.ActionCallEarning, ref, ""); err != nil {
			return err
		}
		cr.Status = domain.CallStatusAccepted
		return s.calls.Save(tx, cr)
	})
	if err != nil {
		return nil, err
	}
	return cr, nil
}

func (s *CallService) Decline(modelID, callID uint) (*models.CallRequest, error) {
	return s.setStatus(callID, domain.CallStatusDeclined, func(cr *models.CallRequest) error {
		if cr.ModelID != modelID {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Cancel lets the fan withdraw a request the model has not acted on.
func (s *CallService) Cancel(fanActorID, callID uint) (*models.CallRequest, error) {
	return s.setStatus(callID, domain.CallStatusCancelled, func(cr *models.CallRequest) error {
		if cr.FanActorID != fanActorID {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (s *CallService) setStatus(callID uint, status string, check func(*models.CallRequest) error) (*models.CallRequest, error) {
	var cr *models.CallRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		cr, err = s.calls.GetForUpdate(tx, callID)
		if err != nil {
			return err
		}
		if err := check(cr); err != nil {
			return err
		}
		if cr.Status != domain.CallStatusPending {
			return ErrCallNotPending
		}
		cr.Status = status
		return s.calls.Save(tx, cr)
	})
	if err != nil {
		return nil, err
	}
	return cr, nil
}
