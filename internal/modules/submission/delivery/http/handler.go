package http

import (
	"net/http"
	"strconv"

	"github.com/formforge/backend/internal/modules/submission/dto"
	"github.com/formforge/backend/internal/modules/submission/service"
	"github.com/formforge/backend/pkg/apperror"
	"github.com/formforge/backend/pkg/response"
	"github.com/formforge/backend/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SubmissionHandler struct {
	submissionService service.SubmissionService
}

func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

func (h *SubmissionHandler) Submit(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	meta := dto.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}

	result, err := h.submissionService.Submit(c.Request.Context(), userID, input, meta)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *SubmissionHandler) GetResponse(c *gin.Context) {
	responseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "invalid response ID format", apperror.ErrInvalidInput))
		return
	}

	view, err := h.submissionService.GetByID(c.Request.Context(), responseID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *SubmissionHandler) ListFormResponses(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	formID, err := uuid.Parse(c.Param("formId"))
	if err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "invalid form ID format", apperror.ErrInvalidInput))
		return
	}

	views, err := h.submissionService.ListForForm(c.Request.Context(), userID, formID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *SubmissionHandler) ListAllResponses(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	views, err := h.submissionService.ListAllForOwner(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}
