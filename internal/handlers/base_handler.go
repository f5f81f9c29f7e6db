package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/survey-portal/internal/backend"
	"github.com/SAP-F-2025/survey-portal/internal/i18n"
	"github.com/SAP-F-2025/survey-portal/internal/models"
	"github.com/SAP-F-2025/survey-portal/internal/services"
	"github.com/SAP-F-2025/survey-portal/internal/table"
	"github.com/SAP-F-2025/survey-portal/internal/utils"
	"github.com/SAP-F-2025/survey-portal/internal/validator"
)

const loginPath = "/login"

// SuccessResponse is the envelope of every successful JSON reply
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse is the envelope of every failed reply
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// MessageData is returned by operations that have nothing else to report
type MessageData struct {
	Message string `json:"message"`
}

// AnswerFailure describes one rejected answer of a submission
type AnswerFailure struct {
	QuestionID uint   `json:"question_id"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Debug(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string) {
	utils.GetLogger(c, h.logger).Error(msg, "error", err, "path", c.FullPath())
}

func (h *BaseHandler) respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{Success: true, Data: data})
}

func (h *BaseHandler) respondPage(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data, Meta: meta})
}

func (h *BaseHandler) respondMessage(c *gin.Context, key string) {
	h.respond(c, http.StatusOK, MessageData{Message: i18n.T(Locale(c), key)})
}

func (h *BaseHandler) respondFile(c *gin.Context, file *models.ExportFile) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// fail writes an error envelope whose message is the localized text of code
func (h *BaseHandler) fail(c *gin.Context, status int, code string, details interface{}) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: i18n.T(Locale(c), code),
			Details: details,
		},
	})
}

func (h *BaseHandler) bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		h.fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return false
	}
	return true
}

// parseIDParam returns 0 after answering 400 when the param is not a positive id
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		h.fail(c, http.StatusBadRequest, "INVALID_ID", param)
		return 0
	}
	return uint(id)
}

// parseIDQuery is parseIDParam for a required query parameter
func (h *BaseHandler) parseIDQuery(c *gin.Context, param string) uint {
	id, err := strconv.ParseUint(c.Query(param), 10, 32)
	if err != nil || id == 0 {
		h.fail(c, http.StatusBadRequest, "INVALID_ID", param)
		return 0
	}
	return uint(id)
}

// parseIndexParam parses a zero based row or column index
func (h *BaseHandler) parseIndexParam(c *gin.Context, param string) (int, bool) {
	index, err := strconv.Atoi(c.Param(param))
	if err != nil || index < 0 {
		h.fail(c, http.StatusBadRequest, "CELL_OUT_OF_RANGE", param)
		return 0, false
	}
	return index, true
}

func (h *BaseHandler) parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	// Handle custom error types first
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.fail(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErrors)
		return
	}

	var answersErr *services.AnswersInvalidError
	if errors.As(err, &answersErr) {
		h.fail(c, http.StatusUnprocessableEntity, "ANSWERS_INVALID", answerFailures(Locale(c), answersErr))
		return
	}

	switch {
	// Share link
	case errors.Is(err, services.ErrTokenMissing):
		h.fail(c, http.StatusBadRequest, "TOKEN_MISSING", nil)
	case errors.Is(err, services.ErrLinkExpired):
		h.fail(c, http.StatusGone, "LINK_EXPIRED", nil)
	case errors.Is(err, services.ErrLinkUsed):
		h.fail(c, http.StatusConflict, "LINK_USED", nil)
	case errors.Is(err, services.ErrLinkInvalid):
		h.fail(c, http.StatusBadRequest, "LINK_INVALID", nil)

	// Surveys and questions
	case errors.Is(err, services.ErrSurveyNotFound):
		h.fail(c, http.StatusNotFound, "SURVEY_NOT_FOUND", nil)
	case errors.Is(err, services.ErrQuestionNotFound):
		h.fail(c, http.StatusNotFound, "QUESTION_NOT_FOUND", nil)
	case errors.Is(err, services.ErrAnswerLocked):
		h.fail(c, http.StatusConflict, "ANSWER_LOCKED", nil)
	case errors.Is(err, services.ErrSurveyEmpty):
		h.fail(c, http.StatusUnprocessableEntity, "SURVEY_EMPTY", nil)
	case errors.Is(err, services.ErrAlreadyPublished):
		h.fail(c, http.StatusConflict, "ALREADY_PUBLISHED", nil)
	case errors.Is(err, services.ErrNotPublished):
		h.fail(c, http.StatusConflict, "NOT_PUBLISHED", nil)

	// Table rows
	case errors.Is(err, table.ErrNotTableType):
		h.fail(c, http.StatusBadRequest, "NOT_TABLE_QUESTION", nil)
	case errors.Is(err, table.ErrRowLimit):
		h.fail(c, http.StatusConflict, "ROW_LIMIT", nil)
	case errors.Is(err, table.ErrRowsLocked):
		h.fail(c, http.StatusConflict, "ROWS_LOCKED", nil)
	case errors.Is(err, table.ErrMinRows):
		h.fail(c, http.StatusConflict, "MIN_ROWS", nil)
	case errors.Is(err, table.ErrOutOfRange):
		h.fail(c, http.StatusBadRequest, "CELL_OUT_OF_RANGE", nil)
	case errors.Is(err, table.ErrInvalidCell):
		h.fail(c, http.StatusBadRequest, "INVALID_CELL", err.Error())

	// Admin session
	case errors.Is(err, services.ErrLoginFailed):
		h.fail(c, http.StatusUnauthorized, "LOGIN_FAILED", nil)
	case errors.Is(err, services.ErrUnauthorized):
		h.fail(c, http.StatusUnauthorized, "UNAUTHORIZED", gin.H{"redirect": loginPath})

	default:
		h.handleBackendError(c, err)
	}
}

// handleBackendError maps a failed backend call that no domain error claimed
func (h *BaseHandler) handleBackendError(c *gin.Context, err error) {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		h.LogError(c, err, "Unexpected service error")
		h.fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", nil)
		return
	}

	details := gin.H{"code": apiErr.Code, "message": apiErr.Message}
	switch {
	case apiErr.Status == 0:
		h.fail(c, http.StatusBadGateway, "NETWORK_ERROR", nil)
	case apiErr.Status == http.StatusUnauthorized:
		h.fail(c, http.StatusUnauthorized, "UNAUTHORIZED", gin.H{"redirect": loginPath})
	case apiErr.Status == http.StatusForbidden:
		h.fail(c, http.StatusForbidden, "FORBIDDEN", nil)
	case apiErr.Status == http.StatusNotFound:
		h.fail(c, http.StatusNotFound, "NOT_FOUND", nil)
	case apiErr.Status == http.StatusServiceUnavailable:
		h.fail(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", nil)
	case apiErr.Status >= http.StatusInternalServerError:
		h.LogError(c, err, "Backend failure")
		h.fail(c, http.StatusBadGateway, "BACKEND_ERROR", details)
	default:
		code := "BACKEND_ERROR"
		if i18n.Has(apiErr.Code) {
			code = apiErr.Code
		}
		h.fail(c, apiErr.Status, code, details)
	}
}

func answerFailures(locale string, err *services.AnswersInvalidError) []AnswerFailure {
	ids := err.QuestionIDs()
	failures := make([]AnswerFailure, 0, len(ids))
	for _, id := range ids {
		failure := AnswerFailure{QuestionID: id, Code: validator.CodeInvalidFormat}
		if answerErr, ok := err.AnswerErrorFor(id); ok {
			failure.Code = answerErr.Code
			if answerErr.Code == validator.CodeTooFewRows || answerErr.Code == validator.CodeTooManyRows {
				failure.Message = i18n.T(locale, answerErr.Code, answerErr.Limit)
			} else {
				failure.Message = i18n.T(locale, answerErr.Code)
			}
		} else {
			failure.Message = i18n.T(locale, failure.Code)
		}
		failures = append(failures, failure)
	}
	return failures
}
