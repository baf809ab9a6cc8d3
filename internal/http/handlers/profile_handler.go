package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/satraksha/hazard-backend/internal/http/handlers/common"
	"github.com/satraksha/hazard-backend/internal/service"
)

// ProfileHandler отвечает за профиль текущего пользователя и
// административные операции над пользователями.
type ProfileHandler struct {
	users *service.UserService
}

// NewProfileHandler создаёт хэндлер.
func NewProfileHandler(users *service.UserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// GetMe обрабатывает GET /profile.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, user)
}

// UpdateMe обрабатывает PUT /profile.
// Изменяемые поля перечислены явно: только имя.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	user, err := h.users.UpdateName(c.Request.Context(), userID, req.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, user)
}

// ListUsers обрабатывает GET /admin/users.
func (h *ProfileHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, users)
}

// DeleteUser обрабатывает DELETE /admin/users/:id.
func (h *ProfileHandler) DeleteUser(c *gin.Context) {
	targetID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.users.Delete(c.Request.Context(), targetID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
