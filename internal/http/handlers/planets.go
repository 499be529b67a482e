package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/starcatalog-backend/internal/http/response"
	catalogmod "github.com/yungbote/starcatalog-backend/internal/modules/catalog"
)

type PlanetHandler struct {
	catalog catalogmod.Usecases
}

func NewPlanetHandler(catalog catalogmod.Usecases) *PlanetHandler {
	return &PlanetHandler{catalog: catalog}
}

type createPlanetRequest struct {
	StarID                  uuid.UUID `json:"star_id"`
	Name                    string    `json:"planet_name"`
	Type                    string    `json:"planet_type"`
	RadiusEarth             *float64  `json:"planet_radius_earth"`
	AngularSeparationArcsec *float64  `json:"angular_separation_arcsec"`
	OrbitalDistanceAU       *float64  `json:"orbital_distance_au"`
	DiscoveryMethod         string    `json:"discovery_method"`
	// YYYY-MM-DD
	DiscoveryDate string `json:"discovery_date"`
}

type updatePlanetRequest struct {
	Name                    string   `json:"planet_name"`
	Type                    string   `json:"planet_type"`
	RadiusEarth             *float64 `json:"planet_radius_earth"`
	AngularSeparationArcsec *float64 `json:"angular_separation_arcsec"`
	OrbitalDistanceAU       *float64 `json:"orbital_distance_au"`
}

type calculateRequest struct {
	AngularSeparationArcsec *float64 `json:"angular_separation_arcsec"`
	OrbitalDistanceAU       *float64 `json:"orbital_distance_au"`
}

// POST /api/planets
func (h *PlanetHandler) CreatePlanet(c *gin.Context) {
	userID, ok := researcherID(c)
	if !ok {
		return
	}
	var req createPlanetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var discovered *time.Time
	if req.DiscoveryDate != "" {
		d, err := time.Parse(time.DateOnly, req.DiscoveryDate)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_discovery_date", fmt.Errorf("discovery_date: %w", err))
			return
		}
		discovered = &d
	}
	out, err := h.catalog.CreatePlanet(c.Request.Context(), catalogmod.CreatePlanetInput{
		ResearcherID:            userID,
		StarID:                  req.StarID,
		Name:                    req.Name,
		Type:                    req.Type,
		RadiusEarth:             req.RadiusEarth,
		AngularSeparationArcsec: req.AngularSeparationArcsec,
		OrbitalDistanceAU:       req.OrbitalDistanceAU,
		DiscoveryMethod:         req.DiscoveryMethod,
		DiscoveryDate:           discovered,
	})
	if err != nil {
		response.RespondFromError(c, err, "create_planet_failed")
		return
	}
	response.RespondCreated(c, out)
}

// PUT /api/planets/:id
func (h *PlanetHandler) UpdatePlanet(c *gin.Context) {
	userID, ok := researcherID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "invalid_planet_id")
	if !ok {
		return
	}
	var req updatePlanetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.catalog.UpdatePlanet(c.Request.Context(), catalogmod.UpdatePlanetInput{
		ResearcherID:            userID,
		PlanetID:                id,
		Name:                    req.Name,
		Type:                    req.Type,
		RadiusEarth:             req.RadiusEarth,
		AngularSeparationArcsec: req.AngularSeparationArcsec,
		OrbitalDistanceAU:       req.OrbitalDistanceAU,
	})
	if err != nil {
		response.RespondFromError(c, err, "update_planet_failed")
		return
	}
	response.RespondOK(c, out)
}

// POST /api/planets/:id/calculate
func (h *PlanetHandler) Calculate(c *gin.Context) {
	userID, ok := researcherID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "invalid_planet_id")
	if !ok {
		return
	}
	// Body is optional.
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.catalog.RecomputePlanet(c.Request.Context(), catalogmod.RecomputeInput{
		ResearcherID:            userID,
		PlanetID:                id,
		AngularSeparationArcsec: req.AngularSeparationArcsec,
		OrbitalDistanceAU:       req.OrbitalDistanceAU,
	})
	if err != nil {
		response.RespondFromError(c, err, "calculate_failed")
		return
	}
	response.RespondCreated(c, res)
}

// GET /api/planets/:id/observations
func (h *PlanetHandler) ListObservations(c *gin.Context) {
	id, ok := pathID(c, "invalid_planet_id")
	if !ok {
		return
	}
	rows, err := h.catalog.ListObservations(c.Request.Context(), id)
	if err != nil {
		response.RespondFromError(c, err, "list_observations_failed")
		return
	}
	response.RespondOK(c, rows)
}
