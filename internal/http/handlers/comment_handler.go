package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/satraksha/hazard-backend/internal/http/handlers/common"
	"github.com/satraksha/hazard-backend/internal/service"
)

// CommentHandler предоставляет HTTP слой для комментариев к отчётам.
type CommentHandler struct {
	comments *service.CommentService
}

// NewCommentHandler создаёт хэндлер.
func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Add обрабатывает POST /hazards/:id/comments.
func (h *CommentHandler) Add(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	reportID, err := common.ParseInt64Param(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	comment, err := h.comments.Add(c.Request.Context(), userID, reportID, req.Text)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, comment)
}

// List обрабатывает GET /hazards/:id/comments.
func (h *CommentHandler) List(c *gin.Context) {
	reportID, err := common.ParseInt64Param(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	comments, err := h.comments.List(c.Request.Context(), reportID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, comments)
}
