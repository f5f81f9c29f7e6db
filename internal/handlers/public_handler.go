package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/survey-portal/internal/services"
	"github.com/SAP-F-2025/survey-portal/internal/utils"
	"github.com/SAP-F-2025/survey-portal/internal/validator"
)

// PublicHandler serves respondents. Every route takes the share token in ?token=.
type PublicHandler struct {
	BaseHandler
	publicService services.PublicSurveyService
}

func NewPublicHandler(publicService services.PublicSurveyService, logger utils.Logger) *PublicHandler {
	return &PublicHandler{
		BaseHandler:   NewBaseHandler(logger),
		publicService: publicService,
	}
}

// GetSurvey loads a survey for answering
// @Summary Load public survey
// @Description Returns the survey with the respondent's draft and prefilled answers merged in
// @Tags public
// @Produce json
// @Param id path uint true "Survey ID"
// @Param token query string true "Share token"
// @Success 200 {object} SuccessResponse{data=services.SurveyView}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Router /public/surveys/{id} [get]
func (h *PublicHandler) GetSurvey(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	view, err := h.publicService.Load(c.Request.Context(), id, c.Query("token"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusOK, view)
}

// SaveAnswer stores one answer in the draft
// @Summary Save answer
// @Tags public
// @Accept json
// @Produce json
// @Param id path uint true "Survey ID"
// @Param question_id path uint true "Question ID"
// @Param token query string true "Share token"
// @Param answer body validator.AnswerRequest true "Answer value"
// @Success 200 {object} SuccessResponse{data=services.SurveyView}
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /public/surveys/{id}/answers/{question_id} [put]
func (h *PublicHandler) SaveAnswer(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	var req validator.AnswerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	view, err := h.publicService.SaveAnswer(c.Request.Context(), id, c.Query("token"), questionID, req.Value)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusOK, view)
}

// AddTableRow appends an empty row to a table answer
// @Summary Add table row
// @Tags public
// @Produce json
// @Param id path uint true "Survey ID"
// @Param question_id path uint true "Question ID"
// @Param token query string true "Share token"
// @Success 200 {object} SuccessResponse{data=table.State}
// @Failure 409 {object} ErrorResponse
// @Router /public/surveys/{id}/answers/{question_id}/rows [post]
func (h *PublicHandler) AddTableRow(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	state, err := h.publicService.AddTableRow(c.Request.Context(), id, c.Query("token"), questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusOK, state)
}

// DeleteTableRow removes one row of a table answer
// @Summary Delete table row
// @Tags public
// @Produce json
// @Param id path uint true "Survey ID"
// @Param question_id path uint true "Question ID"
// @Param row path int true "Row index"
// @Param token query string true "Share token"
// @Success 200 {object} SuccessResponse{data=table.State}
// @Failure 409 {object} ErrorResponse
// @Router /public/surveys/{id}/answers/{question_id}/rows/{row} [delete]
func (h *PublicHandler) DeleteTableRow(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}
	row, ok := h.parseIndexParam(c, "row")
	if !ok {
		return
	}

	state, err := h.publicService.DeleteTableRow(c.Request.Context(), id, c.Query("token"), questionID, row)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusOK, state)
}

// SetTableCell writes one cell of a table answer
// @Summary Set table cell
// @Tags public
// @Accept json
// @Produce json
// @Param id path uint true "Survey ID"
// @Param question_id path uint true "Question ID"
// @Param row path int true "Row index"
// @Param col path int true "Column index"
// @Param token query string true "Share token"
// @Param cell body validator.CellRequest true "Cell value"
// @Success 200 {object} SuccessResponse{data=table.State}
// @Failure 400 {object} ErrorResponse
// @Router /public/surveys/{id}/answers/{question_id}/rows/{row}/cells/{col} [put]
func (h *PublicHandler) SetTableCell(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}
	row, ok := h.parseIndexParam(c, "row")
	if !ok {
		return
	}
	col, ok := h.parseIndexParam(c, "col")
	if !ok {
		return
	}

	var req validator.CellRequest
	if !h.bindJSON(c, &req) {
		return
	}

	state, err := h.publicService.SetTableCell(c.Request.Context(), id, c.Query("token"), questionID, row, col, req.Value)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusOK, state)
}

// DiscardDraft throws the respondent's draft away
// @Summary Discard draft
// @Tags public
// @Produce json
// @Param id path uint true "Survey ID"
// @Param token query string true "Share token"
// @Success 200 {object} SuccessResponse{data=MessageData}
// @Router /public/surveys/{id}/draft [delete]
func (h *PublicHandler) DiscardDraft(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.publicService.Discard(c.Request.Context(), id, c.Query("token")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respondMessage(c, "msg.draft_discarded")
}

// Submit validates the draft and sends it as the response of the link
// @Summary Submit response
// @Tags public
// @Produce json
// @Param id path uint true "Survey ID"
// @Param token query string true "Share token"
// @Success 200 {object} SuccessResponse{data=MessageData}
// @Failure 409 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse{error=ErrorBody{details=[]AnswerFailure}}
// @Router /public/surveys/{id}/submit [post]
func (h *PublicHandler) Submit(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Submitting response", "survey_id", id)

	if err := h.publicService.Submit(c.Request.Context(), id, c.Query("token")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respondMessage(c, "msg.submitted")
}
