package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/satraksha/hazard-backend/internal/http/handlers/common"
	"github.com/satraksha/hazard-backend/internal/service"
)

// VoteHandler предоставляет HTTP слой для голосования по отчётам.
type VoteHandler struct {
	votes *service.VoteService
}

// NewVoteHandler создаёт хэндлер.
func NewVoteHandler(votes *service.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// Vote обрабатывает POST /hazards/:id/vote.
func (h *VoteHandler) Vote(c *gin.Context) {
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
		VoteType string `json:"vote_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.votes.Vote(c.Request.Context(), userID, reportID, req.VoteType)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, result)
}

// Counts обрабатывает GET /hazards/:id/votes.
func (h *VoteHandler) Counts(c *gin.Context) {
	reportID, err := common.ParseInt64Param(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.votes.Counts(c.Request.Context(), reportID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, result)
}
