package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamqa/teamqa-api/internal/dto"
	apierrors "github.com/teamqa/teamqa-api/internal/errors"
	"github.com/teamqa/teamqa-api/internal/middleware"
	"github.com/teamqa/teamqa-api/internal/services"
)

// AnswerHandler coordinates answer-related HTTP handlers.
type AnswerHandler struct {
	answerService *services.AnswerService
}

// NewAnswerHandler creates a new AnswerHandler.
func NewAnswerHandler(answerService *services.AnswerService) *AnswerHandler {
	return &AnswerHandler{
		answerService: answerService,
	}
}

// CreateAnswer posts an answer to a question.
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateAnswerRequest struct {
		QuestionID uint64 `json:"question_id" binding:"required"`
		Body       string `json:"body" binding:"required"`
	}

	var req CreateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	answer, err := h.answerService.CreateAnswer(req.QuestionID, userID, req.Body)
	if err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAnswerDTO(*answer))
}

// ListAnswers lists a question's answers, accepted first.
func (h *AnswerHandler) ListAnswers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	questionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	answers, err := h.answerService.ListAnswers(questionID, userID)
	if err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answers": dto.ToAnswerDTOs(answers),
	})
}

// UpdateAnswer edits an answer's body.
func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	type UpdateAnswerRequest struct {
		Body string `json:"body" binding:"required"`
	}

	var req UpdateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	answer, err := h.answerService.UpdateAnswer(id, userID, req.Body)
	if err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAnswerDTO(*answer))
}

// DeleteAnswer removes an answer.
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.answerService.DeleteAnswer(id, userID); err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Answer deleted",
	})
}

// AcceptAnswer marks an answer as the question's accepted solution.
func (h *AnswerHandler) AcceptAnswer(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	answer, err := h.answerService.AcceptAnswer(id, userID)
	if err != nil {
		respondContentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAnswerDTO(*answer))
}
