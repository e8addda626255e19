package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/teamqa/teamqa-api/internal/errors"
	"github.com/teamqa/teamqa-api/internal/middleware"
	"github.com/teamqa/teamqa-api/internal/models"
	"github.com/teamqa/teamqa-api/internal/services"
)

// VoteHandler coordinates voting HTTP handlers.
type VoteHandler struct {
	voteService *services.VoteService
}

// NewVoteHandler creates a new VoteHandler.
func NewVoteHandler(voteService *services.VoteService) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
	}
}

// CastVote applies a vote to a question or answer. Repeating the same
// direction removes the vote; the opposite direction switches it.
func (h *VoteHandler) CastVote(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CastVoteRequest struct {
		TargetType models.VotableType   `json:"target_type" binding:"required"`
		TargetID   uint64               `json:"target_id" binding:"required"`
		Direction  models.VoteDirection `json:"direction" binding:"required"`
	}

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.voteService.Cast(userID, req.TargetType, req.TargetID, req.Direction)
	if err != nil {
		respondContentError(c, err)
		return
	}

	response := gin.H{
		"removed": result.Removed,
		"score":   result.NewScore,
	}
	if !result.Removed {
		response["direction"] = result.Direction
	}

	c.JSON(http.StatusOK, response)
}

// GetVote returns the caller's current vote on a target, if any.
func (h *VoteHandler) GetVote(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	targetType := models.VotableType(c.Query("target_type"))
	targetID, err := strconv.ParseUint(c.Query("target_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "target_id is required")
		return
	}

	vote, err := h.voteService.GetVote(userID, targetType, targetID)
	if err != nil {
		respondContentError(c, err)
		return
	}

	if vote == nil {
		c.JSON(http.StatusOK, gin.H{
			"voted": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"voted":     true,
		"direction": vote.Direction,
	})
}
