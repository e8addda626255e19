package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamqa/teamqa-api/internal/dto"
	apierrors "github.com/teamqa/teamqa-api/internal/errors"
	"github.com/teamqa/teamqa-api/internal/middleware"
	"github.com/teamqa/teamqa-api/internal/services"
)

// BookmarkHandler coordinates bookmark HTTP handlers.
type BookmarkHandler struct {
	bookmarkService *services.BookmarkService
}

// NewBookmarkHandler creates a new BookmarkHandler.
func NewBookmarkHandler(bookmarkService *services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkService: bookmarkService,
	}
}

// ToggleBookmark bookmarks the question, or removes the bookmark if one
// already exists.
func (h *BookmarkHandler) ToggleBookmark(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type ToggleBookmarkRequest struct {
		QuestionID uint64 `json:"question_id" binding:"required"`
	}

	var req ToggleBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	bookmarked, err := h.bookmarkService.Toggle(userID, req.QuestionID)
	if err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookmarked": bookmarked,
	})
}

// CheckBookmark reports whether the caller bookmarked a question.
func (h *BookmarkHandler) CheckBookmark(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	questionID, err := strconv.ParseUint(c.Query("question_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "question_id is required")
		return
	}

	bookmarked, err := h.bookmarkService.Check(userID, questionID)
	if err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookmarked": bookmarked,
	})
}

// ListBookmarks returns the caller's bookmarked questions.
func (h *BookmarkHandler) ListBookmarks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	bookmarks, err := h.bookmarkService.List(userID)
	if err != nil {
		respondContentError(c, err)
		return
	}

	bookmarkDTOs := make([]dto.BookmarkDTO, len(bookmarks))
	for i, bookmark := range bookmarks {
		bookmarkDTOs[i] = dto.ToBookmarkDTO(bookmark)
	}

	c.JSON(http.StatusOK, gin.H{
		"bookmarks": bookmarkDTOs,
	})
}
