package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/digisapp/exa-platform/internal/models"
	"github.com/digisapp/exa-platform/internal/repository"
	"github.com/digisapp/exa-platform/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	svc       *service.AuthService
	auditRepo *repository.AuditLogRepository
	log       zerolog.Logger
}

func NewAuthHandler(svc *service.AuthService, auditRepo *repository.AuditLogRepository, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, auditRepo: auditRepo, log: log}
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Username    string `json:"username" binding:"required,min=3,max=64"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"required,oneof=FAN BRAND"`
	DateOfBirth string `json:"date_of_birth"` // ISO date, optional for fans and brands
}

type ModelRegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Username        string `json:"username" binding:"required,min=3,max=64"`
	Password        string `json:"password" binding:"required,min=8"`
	DisplayName     string `json:"display_name"`
	DateOfBirth     string `json:"date_of_birth" binding:"required"` // YYYY-MM-DD
	InstagramHandle string `json:"instagram_handle"`
	TikTokHandle    string `json:"tiktok_handle"`
	Phone           string `json:"phone"`
	City            string `json:"city"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var dob *time.Time
	if req.DateOfBirth != "" {
		t, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth format (use YYYY-MM-DD)"})
			return
		}
		dob = &t
	}
	actor, access, refresh, err := h.svc.Register(req.Email, req.Username, req.Password, req.Role, dob)
	if err != nil {
		h.respondAuthError(c, err, req.Email)
		return
	}
	h.auditRepo.Record(actor.ID, "register", "actor", actor.ID, map[string]interface{}{"ip": c.ClientIP()})
	c.JSON(http.StatusCreated, tokenResponse(actor, access, refresh))
}

// RegisterModel handles the model application form. Age and social handle
// rules are enforced in the service.
func (h *AuthHandler) RegisterModel(c *gin.Context) {
	var req ModelRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth format (use YYYY-MM-DD)"})
		return
	}
	actor, access, refresh, err := h.svc.RegisterModel(service.ModelSignup{
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		DisplayName:     req.DisplayName,
		DateOfBirth:     dob,
		InstagramHandle: req.InstagramHandle,
		TikTokHandle:    req.TikTokHandle,
		Phone:           req.Phone,
		City:            req.City,
	})
	if err != nil {
		h.respondAuthError(c, err, req.Email)
		return
	}
	h.auditRepo.Record(actor.ID, "register_model", "actor", actor.ID, map[string]interface{}{"ip": c.ClientIP()})
	c.JSON(http.StatusCreated, tokenResponse(actor, access, refresh))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor, access, refresh, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCreds) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Str("email", req.Email).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	h.auditRepo.Record(actor.ID, "login", "actor", actor.ID, map[string]interface{}{"ip": c.ClientIP()})
	c.JSON(http.StatusOK, tokenResponse(actor, access, refresh))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	access, err := h.svc.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

func (h *AuthHandler) respondAuthError(c *gin.Context, err error, email string) {
	switch {
	case errors.Is(err, service.ErrEmailExists), errors.Is(err, service.ErrUsernameExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAgeRequired),
		errors.Is(err, service.ErrHandleRequired),
		errors.Is(err, service.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("email", email).Msg("registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
	}
}

func tokenResponse(actor *models.Actor, access, refresh string) gin.H {
	return gin.H{
		"actor": gin.H{
			"id":       actor.ID,
			"email":    actor.Email,
			"username": actor.Username,
			"role":     actor.Role,
		},
		"access_token":  access,
		"refresh_token": refresh,
	}
}
