package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/survey-portal/internal/export"
	"github.com/SAP-F-2025/survey-portal/internal/services"
	"github.com/SAP-F-2025/survey-portal/internal/utils"
	"github.com/SAP-F-2025/survey-portal/internal/validator"
)

type SurveyHandler struct {
	BaseHandler
	surveyService services.SurveyService
}

func NewSurveyHandler(surveyService services.SurveyService, logger utils.Logger) *SurveyHandler {
	return &SurveyHandler{
		BaseHandler:   NewBaseHandler(logger),
		surveyService: surveyService,
	}
}

func (h *SurveyHandler) pageParams(c *gin.Context) (int, int) {
	return services.NormalizePage(
		h.parseIntQuery(c, "page", 1),
		h.parseIntQuery(c, "page_size", services.DefaultPageSize),
	)
}

// ListSurveys lists the admin's surveys
// @Summary List surveys
// @Tags surveys
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} SuccessResponse{data=[]models.Survey,meta=models.PaginationMeta}
// @Failure 401 {object} ErrorResponse
// @Router /surveys [get]
func (h *SurveyHandler) ListSurveys(c *gin.Context) {
	page, pageSize := h.pageParams(c)

	surveys, meta, err := h.surveyService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respondPage(c, surveys, meta)
}

// GetSurvey retrieves a survey with its questions
// @Summary Get survey
// @Tags surveys
// @Produce json
// @Param id path uint true "Survey ID"
// @Success 200 {object} SuccessResponse{data=models.Survey}
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id} [get]
func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	survey, err := h.surveyService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusOK, survey)
}

// CreateSurvey creates a draft survey
// @Summary Create survey
// @Tags surveys
// @Accept json
// @Produce json
// @Param survey body validator.SurveyRequest true "Survey data"
// @Success 201 {object} SuccessResponse{data=models.Survey}
// @Failure 400 {object} ErrorResponse
// @Router /surveys [post]
func (h *SurveyHandler) CreateSurvey(c *gin.Context) {
	var req validator.SurveyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	survey, err := h.surveyService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, survey)
}

// UpdateSurvey changes title and description
// @Summary Update survey
// @Tags surveys
// @Accept json
// @Produce json
// @Param id path uint true "Survey ID"
// @Param survey body validator.SurveyRequest true "Survey data"
// @Success 200 {object} SuccessResponse{data=models.Survey}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id} [put]
func (h *SurveyHandler) UpdateSurvey(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.SurveyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	survey, err := h.surveyService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusOK, survey)
}

// DeleteSurvey deletes a survey
// @Summary Delete survey
// @Tags surveys
// @Produce json
// @Param id path uint true "Survey ID"
// @Success 200 {object} SuccessResponse{data=MessageData}
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id} [delete]
func (h *SurveyHandler) DeleteSurvey(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.surveyService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respondMessage(c, "msg.deleted")
}

// PublishSurvey publishes a survey; there is no way back to draft
// @Summary Publish survey
// @Tags surveys
// @Produce json
// @Param id path uint true "Survey ID"
// @Success 200 {object} SuccessResponse{data=models.Survey}
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /surveys/{id}/publish [post]
func (h *SurveyHandler) PublishSurvey(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	survey, err := h.surveyService.Publish(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusOK, survey)
}

// ShareSurvey creates a single use share link
// @Summary Share survey
// @Tags surveys
// @Accept json
// @Produce json
// @Param id path uint true "Survey ID"
// @Param share body validator.ShareRequest false "Prefill data and expiry"
// @Success 201 {object} SuccessResponse{data=models.ShareLink}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /surveys/{id}/share [post]
func (h *SurveyHandler) ShareSurvey(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.ShareRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	link, err := h.surveyService.Share(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, link)
}

// GetResponses lists raw responses
// @Summary List responses
// @Tags responses
// @Produce json
// @Param id path uint true "Survey ID"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} SuccessResponse{data=services.ResponsePage}
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/responses [get]
func (h *SurveyHandler) GetResponses(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	page, pageSize := h.pageParams(c)

	responses, err := h.surveyService.Responses(c.Request.Context(), id, page, pageSize)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusOK, responses)
}

// GetResponseTable lists responses as display ready cells
// @Summary Response table
// @Tags responses
// @Produce json
// @Param id path uint true "Survey ID"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} SuccessResponse{data=services.ResponseTablePage}
// @Router /surveys/{id}/responses/table [get]
func (h *SurveyHandler) GetResponseTable(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	page, pageSize := h.pageParams(c)

	result, err := h.surveyService.ResponseTable(c.Request.Context(), id, page, pageSize, Locale(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusOK, result)
}

// DownloadResponseSheet downloads one page of the response table as xlsx
// @Summary Response sheet
// @Tags responses
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Survey ID"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {file} file
// @Router /surveys/{id}/responses/sheet [get]
func (h *SurveyHandler) DownloadResponseSheet(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	page, pageSize := h.pageParams(c)

	file, err := h.surveyService.ResponseSheet(c.Request.Context(), id, page, pageSize, Locale(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respondFile(c, file)
}

// GetStatistics returns aggregate statistics
// @Summary Survey statistics
// @Tags responses
// @Produce json
// @Param id path uint true "Survey ID"
// @Success 200 {object} SuccessResponse{data=models.Statistics}
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/statistics [get]
func (h *SurveyHandler) GetStatistics(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	stats, err := h.surveyService.Statistics(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respond(c, http.StatusOK, stats)
}

// ExportResponses downloads the backend export
// @Summary Export responses
// @Tags responses
// @Produce octet-stream
// @Param id path uint true "Survey ID"
// @Param format query string false "csv or excel" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Router /surveys/{id}/export [get]
func (h *SurveyHandler) ExportResponses(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	file, err := h.surveyService.Export(c.Request.Context(), id, c.DefaultQuery("format", export.FormatCSV))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.respondFile(c, file)
}
