package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/survey-portal/internal/services"
	"github.com/SAP-F-2025/survey-portal/internal/utils"
	"github.com/SAP-F-2025/survey-portal/internal/validator"
)

type QuestionHandler struct {
	BaseHandler
	questionService services.QuestionService
}

func NewQuestionHandler(questionService services.QuestionService, logger utils.Logger) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     NewBaseHandler(logger),
		questionService: questionService,
	}
}

// CreateQuestion adds a question to a survey
// @Summary Create question
// @Tags questions
// @Accept json
// @Produce json
// @Param question body validator.QuestionCreateRequest true "Question data"
// @Success 201 {object} SuccessResponse{data=models.Question}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req validator.QuestionCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating question", "survey_id", req.SurveyID)

	question, err := h.questionService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, question)
}

// UpdateQuestion changes the given fields of a question
// @Summary Update question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path uint true "Question ID"
// @Param question body validator.QuestionUpdateRequest true "Changed fields and the survey id"
// @Success 200 {object} SuccessResponse{data=models.Question}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.QuestionUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusOK, question)
}

// DeleteQuestion deletes a question
// @Summary Delete question
// @Tags questions
// @Produce json
// @Param id path uint true "Question ID"
// @Param survey_id query uint true "Survey the question belongs to"
// @Success 200 {object} SuccessResponse{data=MessageData}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	surveyID := h.parseIDQuery(c, "survey_id")
	if surveyID == 0 {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), surveyID, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respondMessage(c, "msg.deleted")
}

// ReorderQuestions sets the order of all questions of a survey
// @Summary Reorder questions
// @Tags questions
// @Accept json
// @Produce json
// @Param id path uint true "Survey ID"
// @Param order body validator.ReorderRequest true "Question ids in their new order"
// @Success 200 {object} SuccessResponse{data=MessageData}
// @Failure 400 {object} ErrorResponse
// @Router /surveys/{id}/questions/reorder [put]
func (h *QuestionHandler) ReorderQuestions(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.ReorderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.questionService.Reorder(c.Request.Context(), id, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respondMessage(c, "msg.reordered")
}
