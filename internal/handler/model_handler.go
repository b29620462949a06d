package handler

import (
	"net/http"

	"github.com/digisapp/exa-platform/internal/middleware"
	"github.com/digisapp/exa-platform/internal/models"
	"github.com/digisapp/exa-platform/internal/repository"
	"github.com/digisapp/exa-platform/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

type ModelHandler struct {
	modelRepo *repository.ModelRepository
	uploads   cloudinary.Client
	log       zerolog.Logger
}

func NewModelHandler(modelRepo *repository.ModelRepository, uploads cloudinary.Client, log zerolog.Logger) *ModelHandler {
	return &ModelHandler{modelRepo: modelRepo, uploads: uploads, log: log}
}

// modelCard is the public listing shape; balances and contact details stay
// private.
type modelCard struct {
	ID           uint   `json:"id"`
	DisplayName  string `json:"display_name"`
	City         string `json:"city"`
	Bio          string `json:"bio"`
	MainImageURL string `json:"main_image_url"`

	PhotoshootHourlyRate int64 `json:"photoshoot_hourly_rate"`
	PromoHourlyRate      int64 `json:"promo_hourly_rate"`
	EventHourlyRate      int64 `json:"event_hourly_rate"`
	MeetGreetFlatRate    int64 `json:"meet_greet_flat_rate"`
	VideoCallFlatRate    int64 `json:"video_call_flat_rate"`
}

func toCard(m models.ModelProfile) modelCard {
	return modelCard{
		ID:                   m.ID,
		DisplayName:          m.DisplayName,
		City:                 m.City,
		Bio:                  m.Bio,
		MainImageURL:         m.MainImageURL,
		PhotoshootHourlyRate: m.PhotoshootHourlyRate,
		PromoHourlyRate:      m.PromoHourlyRate,
		EventHourlyRate:      m.EventHourlyRate,
		MeetGreetFlatRate:    m.MeetGreetFlatRate,
		VideoCallFlatRate:    m.VideoCallFlatRate,
	}
}

func (h *ModelHandler) List(c *gin.Context) {
	limit, offset := paginate(c)
	list, err := h.modelRepo.ListPublic(c.Query("city"), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": lo.Map(list, func(m models.ModelProfile, _ int) modelCard {
		return toCard(m)
	})})
}

func (h *ModelHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := h.modelRepo.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	card := toCard(*m)
	c.JSON(http.StatusOK, gin.H{"model": card, "media": m.Media})
}

// Me returns the authenticated model's own profile, balance included.
func (h *ModelHandler) Me(c *gin.Context) {
	m, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": m})
}

type updateProfileRequest struct {
	DisplayName       *string `json:"display_name"`
	Bio               *string `json:"bio"`
	City              *string `json:"city"`
	HeightCm          *int    `json:"height_cm"`
	InstagramHandle   *string `json:"instagram_handle"`
	TikTokHandle      *string `json:"tiktok_handle"`
	AppearInSearch    *bool   `json:"appear_in_search"`
	AcceptNewRequests *bool   `json:"accept_new_requests"`
}

func (h *ModelHandler) UpdateMe(c *gin.Context) {
	m, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DisplayName != nil {
		m.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		m.Bio = *req.Bio
	}
	if req.City != nil {
		m.City = *req.City
	}
	if req.HeightCm != nil {
		m.HeightCm = *req.HeightCm
	}
	if req.InstagramHandle != nil {
		m.InstagramHandle = *req.InstagramHandle
	}
	if req.TikTokHandle != nil {
		m.TikTokHandle = *req.TikTokHandle
	}
	if req.AppearInSearch != nil {
		m.AppearInSearch = *req.AppearInSearch
	}
	if req.AcceptNewRequests != nil {
		m.AcceptNewRequests = *req.AcceptNewRequests
	}
	if err := h.modelRepo.Update(m); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": m})
}

type updateRatesRequest struct {
	PhotoshootHourlyRate *int64 `json:"photoshoot_hourly_rate" binding:"omitempty,min=0"`
	PromoHourlyRate      *int64 `json:"promo_hourly_rate" binding:"omitempty,min=0"`
	EventHourlyRate      *int64 `json:"event_hourly_rate" binding:"omitempty,min=0"`
	MeetGreetFlatRate    *int64 `json:"meet_greet_flat_rate" binding:"omitempty,min=0"`
	VideoCallFlatRate    *int64 `json:"video_call_flat_rate" binding:"omitempty,min=0"`
}

// UpdateRates edits the published rate card. Open bookings keep the totals
// frozen at creation time.
func (h *ModelHandler) UpdateRates(c *gin.Context) {
	m, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var req updateRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rates := map[string]interface{}{}
	if req.PhotoshootHourlyRate != nil {
		rates["photoshoot_hourly_rate"] = *req.PhotoshootHourlyRate
	}
	if req.PromoHourlyRate != nil {
		rates["promo_hourly_rate"] = *req.PromoHourlyRate
	}
	if req.EventHourlyRate != nil {
		rates["event_hourly_rate"] = *req.EventHourlyRate
	}
	if req.MeetGreetFlatRate != nil {
		rates["meet_greet_flat_rate"] = *req.MeetGreetFlatRate
	}
	if req.VideoCallFlatRate != nil {
		rates["video_call_flat_rate"] = *req.VideoCallFlatRate
	}
	if len(rates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no rates provided"})
		return
	}
	if err := h.modelRepo.UpdateRates(m.ID, rates); err != nil {
		respondServiceError(c, err)
		return
	}
	updated, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": updated})
}

// UploadMedia pushes a portfolio image or video to Cloudinary and records it.
func (h *ModelHandler) UploadMedia(c *gin.Context) {
	m, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer file.Close()

	mediaType := c.DefaultPostForm("media_type", "IMAGE")
	var url, thumb string
	switch mediaType {
	case "IMAGE":
		url, thumb, err = h.uploads.UploadImage(c.Request.Context(), file, "models", "")
	case "VIDEO":
		url, thumb, err = h.uploads.UploadVideo(c.Request.Context(), file, "models", "")
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_type must be IMAGE or VIDEO"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Uint("model_id", m.ID).Msg("media upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	media := &models.ModelMedia{
		ModelID:      m.ID,
		MediaType:    mediaType,
		URL:          url,
		ThumbnailURL: thumb,
	}
	if err := h.modelRepo.AddMedia(media); err != nil {
		respondServiceError(c, err)
		return
	}
	if m.MainImageURL == "" && mediaType == "IMAGE" {
		m.MainImageURL = url
		_ = h.modelRepo.Update(m)
	}
	c.JSON(http.StatusCreated, gin.H{"media": media})
}

func (h *ModelHandler) DeleteMedia(c *gin.Context) {
	m, err := h.modelRepo.GetByActorID(middleware.GetActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	mediaID, ok := pathID(c, "mediaId")
	if !ok {
		return
	}
	if err := h.modelRepo.DeleteMedia(m.ID, mediaID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
