package service

import (
	"testing"
	"time"

	"github.com/digisapp/exa-platform/config"
	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/models"
	"github.com/digisapp/exa-platform/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access",
			RefreshSecret: "test-refresh",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
			Issuer:        "test",
		},
		Signup: config.SignupConfig{MinAge: 18},
	}
	return NewAuthService(cfg, repository.NewActorRepository(db), repository.NewModelRepository(db))
}

func validModelSignup() ModelSignup {
	return ModelSignup{
		Email:           "model@test.local",
		Username:        "newmodel",
		Password:        "password123",
		DateOfBirth:     time.Now().AddDate(-25, 0, 0),
		InstagramHandle: "@newmodel",
	}
}

func TestRegisterModelUnderage(t *testing.T) {
	db := testDB(t)
	svc := testAuthService(db)

	in := validModelSignup()
	in.DateOfBirth = time.Now().AddDate(-17, 0, 0)
	_, _, _, err := svc.RegisterModel(in)
	require.ErrorIs(t, err, ErrAgeRequired)

	// Exactly 18 passes.
	in.DateOfBirth = time.Now().AddDate(-18, 0, -1)
	_, _, _, err = svc.RegisterModel(in)
	require.NoError(t, err)
}

func TestRegisterModelRequiresSocialHandle(t *testing.T) {
	db := testDB(t)
	svc := testAuthService(db)

	in := validModelSignup()
	in.InstagramHandle = ""
	in.TikTokHandle = ""
	in.Phone = "+15550001111" // a phone alone does not qualify
	_, _, _, err := svc.RegisterModel(in)
	require.ErrorIs(t, err, ErrHandleRequired)

	in.TikTokHandle = "@newmodel"
	actor, access, refresh, err := svc.RegisterModel(in)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModel, actor.Role)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	var profile models.ModelProfile
	require.NoError(t, db.Where("actor_id = ?", actor.ID).First(&profile).Error)
	assert.Equal(t, "@newmodel", profile.TikTokHandle)
	assert.Zero(t, profile.CoinBalance)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testDB(t)
	svc := testAuthService(db)

	_, _, _, err := svc.Register("fan@test.local", "fanone", "password123", domain.RoleFan, nil)
	require.NoError(t, err)

	_, _, _, err = svc.Register("fan@test.local", "fantwo", "password123", domain.RoleFan, nil)
	require.ErrorIs(t, err, ErrEmailExists)

	_, _, _, err = svc.Register("other@test.local", "fanone", "password123", domain.RoleFan, nil)
	require.ErrorIs(t, err, ErrUsernameExists)
}

func TestRegisterRejectsNonClientRoles(t *testing.T) {
	db := testDB(t)
	svc := testAuthService(db)

	for _, role := range []string{domain.RoleModel, domain.RoleAdmin, "WHATEVER"} {
		_, _, _, err := svc.Register("x@test.local", "x", "password123", role, nil)
		require.ErrorIs(t, err, ErrInvalidRole)
	}
}

func TestRegisterCreatesBalanceProfile(t *testing.T) {
	db := testDB(t)
	svc := testAuthService(db)

	actor, _, _, err := svc.Register("brand@test.local", "brandco", "password123", domain.RoleBrand, nil)
	require.NoError(t, err)

	var profile models.BrandProfile
	require.NoError(t, db.Where("actor_id = ?", actor.ID).First(&profile).Error)
	assert.Zero(t, profile.CoinBalance)
}

func TestLogin(t *testing.T) {
	db := testDB(t)
	svc := testAuthService(db)

	_, _, _, err := svc.Register("fan@test.local", "fanone", "password123", domain.RoleFan, nil)
	require.NoError(t, err)

	actor, access, _, err := svc.Login("fan@test.local", "password123")
	require.NoError(t, err)
	assert.Equal(t, "fanone", actor.Username)
	assert.NotEmpty(t, access)

	_, _, _, err = svc.Login("fan@test.local", "wrongpass")
	require.ErrorIs(t, err, ErrInvalidCreds)
	_, _, _, err = svc.Login("nobody@test.local", "password123")
	require.ErrorIs(t, err, ErrInvalidCreds)
}

func TestRefreshRoundTrip(t *testing.T) {
	db := testDB(t)
	svc := testAuthService(db)

	_, _, refresh, err := svc.Register("fan@test.local", "fanone", "password123", domain.RoleFan, nil)
	require.NoError(t, err)

	access, err := svc.Refresh(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	_, err = svc.Refresh("not-a-token")
	require.Error(t, err)
}

func TestLoginWithGoogleLinksExistingAccount(t *testing.T) {
	db := testDB(t)
	svc := testAuthService(db)

	existing, _, _, err := svc.Register("fan@test.local", "fanone", "password123", domain.RoleFan, nil)
	require.NoError(t, err)

	actor, _, _, isNew, err := svc.LoginWithGoogle("google-123", "fan@test.local", "Fan One", "")
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, existing.ID, actor.ID)

	// Second sign-in resolves by google id.
	again, _, _, isNew, err := svc.LoginWithGoogle("google-123", "fan@test.local", "Fan One", "")
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, existing.ID, again.ID)
}

func TestLoginWithGoogleCreatesFan(t *testing.T) {
	db := testDB(t)
	svc := testAuthService(db)

	actor, _, _, isNew, err := svc.LoginWithGoogle("google-456", "new@test.local", "New Fan", "https://img")
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, domain.RoleFan, actor.Role)

	var profile models.FanProfile
	require.NoError(t, db.Where("actor_id = ?", actor.ID).First(&profile).Error)
}
