package service

import (
	"errors"
	"time"

	"github.com/digisapp/exa-platform/config"
	"github.com/digisapp/exa-platform/internal/auth"
	"github.com/digisapp/exa-platform/internal/domain"
	"github.com/digisapp/exa-platform/internal/models"
	"github.com/digisapp/exa-platform/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
	ErrInvalidCreds   = errors.New("invalid email or password")
	ErrAgeRequired    = errors.New("must be 18 or older")
	ErrHandleRequired = errors.New("at least one of instagram or tiktok handle is required")
	ErrInvalidRole    = errors.New("invalid role")
)

type AuthService struct {
	cfg       *config.Config
	actorRepo *repository.ActorRepository
	modelRepo *repository.ModelRepository
}

func NewAuthService(cfg *config.Config, actorRepo *repository.ActorRepository, modelRepo *repository.ModelRepository) *AuthService {
	return &AuthService{cfg: cfg, actorRepo: actorRepo, modelRepo: modelRepo}
}

// ModelSignup carries the model application form.
type ModelSignup struct {
	Email           string
	Username        string
	Password        string
	DisplayName     string
	DateOfBirth     time.Time
	InstagramHandle string
	TikTokHandle    string
	Phone           string
	City            string
}

// RegisterModel enforces the model signup rules: 18+ at date of birth, and
// at least one social handle. A phone number alone does not qualify.
func (s *AuthService) RegisterModel(in ModelSignup) (*models.Actor, string, string, error) {
	minAge := s.cfg.Signup.MinAge
	if minAge < 18 {
		minAge = 18
	}
	probe := models.Actor{DateOfBirth: &in.DateOfBirth}
	if probe.Age(time.Now()) < minAge {
		return nil, "", "", ErrAgeRequired
	}
	if in.InstagramHandle == "" && in.TikTokHandle == "" {
		return nil, "", "", ErrHandleRequired
	}
	actor, err := s.createActor(in.Email, in.Username, in.Password, domain.RoleModel, &in.DateOfBirth)
	if err != nil {
		return nil, "", "", err
	}
	profile := &models.ModelProfile{
		ActorID:         actor.ID,
		DisplayName:     in.DisplayName,
		InstagramHandle: in.InstagramHandle,
		TikTokHandle:    in.TikTokHandle,
		Phone:           in.Phone,
		City:            in.City,
		IsActive:        true,
		AppearInSearch:  true,
	}
	if profile.DisplayName == "" {
		profile.DisplayName = in.Username
	}
	if err := s.modelRepo.Create(profile); err != nil {
		return nil, "", "", err
	}
	return s.withTokens(actor)
}

// Register creates a fan or brand account with its balance profile.
func (s *AuthService) Register(email, username, password, role string, dateOfBirth *time.Time) (*models.Actor, string, string, error) {
	if role != domain.RoleFan && role != domain.RoleBrand {
		return nil, "", "", ErrInvalidRole
	}
	actor, err := s.createActor(email, username, password, role, dateOfBirth)
	if err != nil {
		return nil, "", "", err
	}
	if role == domain.RoleFan {
		err = s.actorRepo.CreateFanProfile(&models.FanProfile{ActorID: actor.ID, DisplayName: username})
	} else {
		err = s.actorRepo.CreateBrandProfile(&models.BrandProfile{ActorID: actor.ID, CompanyName: username})
	}
	if err != nil {
		return nil, "", "", err
	}
	return s.withTokens(actor)
}

func (s *AuthService) createActor(email, username, password, role string, dateOfBirth *time.Time) (*models.Actor, error) {
	_, err := s.actorRepo.GetByEmail(email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	_, err = s.actorRepo.GetByUsername(username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	actor := &models.Actor{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		DateOfBirth:  dateOfBirth,
	}
	if err := s.actorRepo.Create(actor); err != nil {
		return nil, err
	}
	return actor, nil
}

func (s *AuthService) Login(email, password string) (*models.Actor, string, string, error) {
	actor, err := s.actorRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	return s.withTokens(actor)
}

// LoginWithGoogle finds or creates a fan actor for a verified Google
// identity and returns tokens plus an isNew flag.
func (s *AuthService) LoginWithGoogle(googleID, email, name, avatarURL string) (*models.Actor, string, string, bool, error) {
	actor, err := s.actorRepo.GetByGoogleID(googleID)
	if err == nil {
		a, access, refresh, err := s.withTokens(actor)
		return a, access, refresh, false, err
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", false, err
	}
	existing, err := s.actorRepo.GetByEmail(email)
	if err == nil {
		gid := googleID
		existing.GoogleID = &gid
		if avatarURL != "" {
			existing.AvatarURL = avatarURL
		}
		if err := s.actorRepo.Update(existing); err != nil {
			return nil, "", "", false, err
		}
		a, access, refresh, err := s.withTokens(existing)
		return a, access, refresh, false, err
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", false, err
	}
	gid := googleID
	actor = &models.Actor{
		Email:     email,
		Username:  name,
		Role:      domain.RoleFan,
		GoogleID:  &gid,
		AvatarURL: avatarURL,
	}
	if err := s.actorRepo.Create(actor); err != nil {
		return nil, "", "", false, err
	}
	if err := s.actorRepo.CreateFanProfile(&models.FanProfile{ActorID: actor.ID, DisplayName: name}); err != nil {
		return nil, "", "", false, err
	}
	a, access, refresh, err := s.withTokens(actor)
	return a, access, refresh, true, err
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	actorID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", err
	}
	actor, err := s.actorRepo.GetByID(actorID)
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	return auth.GenerateAccessToken(&s.cfg.JWT, actor.ID, actor.Email, actor.Role)
}

func (s *AuthService) withTokens(actor *models.Actor) (*models.Actor, string, string, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, actor.ID, actor.Email, actor.Role)
	if err != nil {
		return actor, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, actor.ID)
	if err != nil {
		return actor, access, "", err
	}
	return actor, access, refresh, nil
}
