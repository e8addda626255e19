package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamqa/teamqa-api/internal/dto"
	apierrors "github.com/teamqa/teamqa-api/internal/errors"
	"github.com/teamqa/teamqa-api/internal/middleware"
	"github.com/teamqa/teamqa-api/internal/models"
	"github.com/teamqa/teamqa-api/internal/services"
)

// CommentHandler coordinates comment-related HTTP handlers.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// CreateComment posts a comment under a question or answer.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateCommentRequest struct {
		ParentType models.CommentParentType `json:"parent_type" binding:"required"`
		ParentID   uint64                   `json:"parent_id" binding:"required"`
		Body       string                   `json:"body" binding:"required"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(req.ParentType, req.ParentID, userID, req.Body)
	if err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListComments lists a post's comments, oldest first.
func (h *CommentHandler) ListComments(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	parentType := models.CommentParentType(c.Query("parent_type"))
	parentID, err := strconv.ParseUint(c.Query("parent_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "parent_id is required")
		return
	}

	comments, err := h.commentService.ListComments(parentType, parentID, userID)
	if err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": dto.ToCommentDTOs(comments),
	})
}

// DeleteComment removes a comment.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(id, userID); err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted",
	})
}
