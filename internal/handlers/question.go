package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamqa/teamqa-api/internal/dto"
	apierrors "github.com/teamqa/teamqa-api/internal/errors"
	"github.com/teamqa/teamqa-api/internal/middleware"
	"github.com/teamqa/teamqa-api/internal/repository"
	"github.com/teamqa/teamqa-api/internal/services"
	"github.com/teamqa/teamqa-api/internal/utils"
)

// QuestionHandler coordinates question-related HTTP handlers.
type QuestionHandler struct {
	questionService *services.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
	}
}

// CreateQuestion posts a question into a team.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateQuestionRequest struct {
		TeamID uint64   `json:"team_id" binding:"required"`
		Title  string   `json:"title" binding:"required,max=255"`
		Body   string   `json:"body" binding:"required"`
		Tags   []string `json:"tags"`
	}

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	question, err := h.questionService.CreateQuestion(services.CreateQuestionInput{
		TeamID:   req.TeamID,
		AuthorID: userID,
		Title:    req.Title,
		Body:     req.Body,
		Tags:     req.Tags,
	})
	if err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToQuestionDTO(*question))
}

// ListQuestions lists a team's questions with filtering and sorting.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	teamID, err := strconv.ParseUint(c.Query("team_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "team_id is required")
		return
	}

	pagination := utils.GetPaginationParams(c)
	filter := repository.QuestionFilter{
		TeamID:     teamID,
		Tag:        c.Query("tag"),
		Search:     c.Query("search"),
		Unanswered: c.Query("unanswered") == "true",
		Unaccepted: c.Query("unaccepted") == "true",
		SortBy:     c.DefaultQuery("sort", "active"),
		Page:       pagination.Page,
		PageSize:   pagination.Limit,
	}

	questions, total, err := h.questionService.ListQuestions(userID, filter)
	if err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": dto.ToQuestionDTOs(questions),
		"pagination": utils.PaginationResponse{
			Page:  pagination.Page,
			Limit: pagination.Limit,
			Total: total,
		},
	})
}

// GetQuestion returns a single question and bumps its view count.
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	question, err := h.questionService.GetQuestion(id, userID)
	if err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToQuestionDTO(*question))
}

// UpdateQuestion edits a question's title, body or tags.
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	type UpdateQuestionRequest struct {
		Title *string   `json:"title" binding:"omitempty,max=255"`
		Body  *string   `json:"body"`
		Tags  *[]string `json:"tags"`
	}

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateQuestionInput{
		Title: req.Title,
		Body:  req.Body,
	}
	if req.Tags != nil {
		input.Tags = *req.Tags
		input.HasTags = true
	}

	question, err := h.questionService.UpdateQuestion(id, userID, input)
	if err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToQuestionDTO(*question))
}

// DeleteQuestion removes a question and everything hanging off it.
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.questionService.DeleteQuestion(id, userID); err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Question deleted",
	})
}

// CloseQuestion closes a question to new answers.
func (h *QuestionHandler) CloseQuestion(c *gin.Context) {
	h.setClosed(c, true)
}

// ReopenQuestion reopens a closed question.
func (h *QuestionHandler) ReopenQuestion(c *gin.Context) {
	h.setClosed(c, false)
}

func (h *QuestionHandler) setClosed(c *gin.Context, closed bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	question, err := h.questionService.SetClosed(id, userID, closed)
	if err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToQuestionDTO(*question))
}

// respondContentError maps content-layer service errors to API responses.
// Membership failures return 404 so team existence is not leaked.
func respondContentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrAnswerNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrVoteTargetNotFound),
		errors.Is(err, services.ErrNotTeamMember):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotQuestionOwner),
		errors.Is(err, services.ErrNotAnswerOwner),
		errors.Is(err, services.ErrNotModerator):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrEmptyTitle),
		errors.Is(err, services.ErrEmptyBody),
		errors.Is(err, services.ErrEmptyAnswerBody),
		errors.Is(err, services.ErrEmptyCommentBody),
		errors.Is(err, services.ErrCommentTooLong),
		errors.Is(err, services.ErrInvalidParentType),
		errors.Is(err, services.ErrInvalidVote),
		errors.Is(err, services.ErrTooManyTags):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrQuestionIsClosed):
		apierrors.InvalidOperation(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
