package service

import (
	"testing"
	"time"

	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallRequestPricedFromFlatRate(t *testing.T) {
	db := testDB(t)
	svc := newCallService(db)
	fan := newFan(t, db, 100)
	_, model := newModel(t, db, nil)

	cr, err := svc.CreateRequest(fan, model, time.Now().Add(24*time.Hour), "hi")
	require.NoError(t, err)
	assert.Equal(t, int64(30), cr.TotalCoins)
	assert.Equal(t, domain.CallStatusPending, cr.Status)

	// No coins move until the model accepts.
	assert.Equal(t, int64(100), balanceOf(t, db, domain.RoleFan, fan.ID))
}

func TestCallRequestRequiresPublishedRate(t *testing.T) {
	db := testDB(t)
	svc := newCallService(db)
	fan := newFan(t, db, 100)
	_, model := newModel(t, db, func(m *models.ModelProfile) { m.VideoCallFlatRate = 0 })

	_, err := svc.CreateRequest(fan, model, time.Now().Add(24*time.Hour), "")
	require.ErrorIs(t, err, ErrCallNotOffered)
}

func TestCallAcceptTransfersAtomically(t *testing.T) {
	db := testDB(t)
	svc := newCallService(db)
	fan := newFan(t, db, 100)
	modelActor, model := newModel(t, db, nil)

	cr, err := svc.CreateRequest(fan, model, time.Now().Add(24*time.Hour), "")
	require.NoError(t, err)

	accepted, err := svc.Accept(model.ID, cr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CallStatusAccepted, accepted.Status)
	assert.Equal(t, int64(70), balanceOf(t, db, domain.RoleFan, fan.ID))
	assert.Equal(t, int64(30), balanceOf(t, db, domain.RoleModel, modelActor.ID))

	charge := ledgerRows(t, db, fan.ID, domain.ActionCallCharge)
	require.Len(t, charge, 1)
	earning := ledgerRows(t, db, modelActor.ID, domain.ActionCallEarning)
	require.Len(t, earning, 1)
	assert.Equal(t, charge[0].Reference, earning[0].Reference)

	// Accepting twice is rejected and moves nothing.
	_, err = svc.Accept(model.ID, cr.ID)
	require.ErrorIs(t, err, ErrCallNotPending)
	assert.Equal(t, int64(70), balanceOf(t, db, domain.RoleFan, fan.ID))
}

func TestCallAcceptInsufficientFunds(t *testing.T) {
	db := testDB(t)
	svc := newCallService(db)
	fan := newFan(t, db, 10)
	modelActor, model := newModel(t, db, nil)

	cr, err := svc.CreateRequest(fan, model, time.Now().Add(24*time.Hour), "")
	require.NoError(t, err)

	_, err = svc.Accept(model.ID, cr.ID)
	var insufficient *InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(30), insufficient.Required)
	assert.Equal(t, int64(10), insufficient.Balance)

	// The transaction rolled back entirely.
	assert.Equal(t, int64(10), balanceOf(t, db, domain.RoleFan, fan.ID))
	assert.Equal(t, int64(0), balanceOf(t, db, domain.RoleModel, modelActor.ID))
	reloaded, err := svc.calls.GetByID(cr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CallStatusPending, reloaded.Status)
}

func TestCallDeclineAndCancel(t *testing.T) {
	db := testDB(t)
	svc := newCallService(db)
	fan := newFan(t, db, 100)
	_, model := newModel(t, db, nil)

	cr, err := svc.CreateRequest(fan, model, time.Now().Add(24*time.Hour), "")
	require.NoError(t, err)
	declined, err := svc.Decline(model.ID, cr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CallStatusDeclined, declined.Status)

	second, err := svc.CreateRequest(fan, model, time.Now().Add(48*time.Hour), "")
	require.NoError(t, err)
	cancelled, err := svc.Cancel(fan.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CallStatusCancelled, cancelled.Status)

	// Only the fan may cancel their own request.
	third, err := svc.CreateRequest(fan, model, time.Now().Add(72*time.Hour), "")
	require.NoError(t, err)
	otherFan := newFan(t, db, 0)
	_, err = svc.Cancel(otherFan.ID, third.ID)
	require.Error(t, err)
}
