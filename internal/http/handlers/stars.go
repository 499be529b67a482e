package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/starcatalog-backend/internal/http/response"
	catalogmod "github.com/yungbote/starcatalog-backend/internal/modules/catalog"
)

type StarHandler struct {
	catalog catalogmod.Usecases
}

func NewStarHandler(catalog catalogmod.Usecases) *StarHandler {
	return &StarHandler{catalog: catalog}
}

type starRequest struct {
	Name                  string   `json:"star_name"`
	DistanceLY            *float64 `json:"distance_ly"`
	Luminosity            *float64 `json:"luminosity"`
	SpectralType          string   `json:"spectral_type"`
	EffectiveTemperatureK *float64 `json:"effective_temperature_k"`
	RadiusSolar           *float64 `json:"radius_solar"`
}

func (r starRequest) input() catalogmod.StarInput {
	return catalogmod.StarInput{
		Name:                  r.Name,
		DistanceLY:            r.DistanceLY,
		Luminosity:            r.Luminosity,
		SpectralType:          r.SpectralType,
		EffectiveTemperatureK: r.EffectiveTemperatureK,
		RadiusSolar:           r.RadiusSolar,
	}
}

// GET /api/stars
func (h *StarHandler) ListStars(c *gin.Context) {
	stars, err := h.catalog.ListStars(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, err, "list_stars_failed")
		return
	}
	response.RespondOK(c, stars)
}

// GET /api/stars/:id
func (h *StarHandler) GetStar(c *gin.Context) {
	id, ok := pathID(c, "invalid_star_id")
	if !ok {
		return
	}
	detail, err := h.catalog.GetStar(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, err, "get_star_failed")
		return
	}
	response.RespondOK(c, detail)
}

// POST /api/stars
func (h *StarHandler) CreateStar(c *gin.Context) {
	var req starRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	star, err := h.catalog.CreateStar(c.Request.Context(), req.input())
	if err != nil {
		response.RespondFromError(c, err, "create_star_failed")
		return
	}
	response.RespondCreated(c, star)
}

// PUT /api/stars/:id
func (h *StarHandler) UpdateStar(c *gin.Context) {
	id, ok := pathID(c, "invalid_star_id")
	if !ok {
		return
	}
	var req starRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	star, err := h.catalog.UpdateStar(c.Request.Context(), id, req.input())
	if err != nil {
		response.RespondFromError(c, err, "update_star_failed")
		return
	}
	response.RespondOK(c, star)
}
