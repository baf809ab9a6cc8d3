package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/satraksha/hazard-backend/internal/http/handlers/common"
	"github.com/satraksha/hazard-backend/internal/service"
)

// LocationHandler предоставляет HTTP слой для местоположений пользователей.
type LocationHandler struct {
	locations *service.LocationService
}

// NewLocationHandler создаёт хэндлер.
func NewLocationHandler(locations *service.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// Update обрабатывает PUT /location.
func (h *LocationHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Lat *float64 `json:"lat" binding:"required"`
		Lng *float64 `json:"lng" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	loc, err := h.locations.Update(c.Request.Context(), userID, *req.Lat, *req.Lng)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, loc)
}

// GetMe обрабатывает GET /location/me.
func (h *LocationHandler) GetMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	loc, err := h.locations.Get(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, loc)
}

// History обрабатывает GET /location/history.
func (h *LocationHandler) History(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit := common.ParseIntQuery(c, "limit", 100)

	history, err := h.locations.History(c.Request.Context(), userID, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, history)
}

// Nearby обрабатывает GET /users/nearby?lat=..&lng=..&radius_km=..
func (h *LocationHandler) Nearby(c *gin.Context) {
	lat, err := common.RequireFloatQuery(c, "lat")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	lng, err := common.RequireFloatQuery(c, "lng")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	radiusKM, err := common.ParseFloatQuery(c, "radius_km", 0)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	users, err := h.locations.Nearby(c.Request.Context(), lat, lng, radiusKM)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, users)
}
