package http

import (
	"net/http"
	"strconv"

	"github.com/formforge/backend/internal/modules/form/dto"
	"github.com/formforge/backend/internal/modules/form/service"
	"github.com/formforge/backend/pkg/apperror"
	"github.com/formforge/backend/pkg/response"
	"github.com/formforge/backend/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FormHandler struct {
	formService service.FormService
}

func NewFormHandler(formService service.FormService) *FormHandler {
	return &FormHandler{formService: formService}
}

func (h *FormHandler) CreateForm(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.FormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	form, err := h.formService.Create(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, form)
}

func (h *FormHandler) UpdateForm(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	formID, err := parseFormID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.FormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	form, err := h.formService.Update(c.Request.Context(), userID, formID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

func (h *FormHandler) DeleteForm(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	formID, err := parseFormID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.formService.SoftDelete(c.Request.Context(), userID, formID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "form deleted successfully"})
}

func (h *FormHandler) GetForm(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	formID, err := parseFormID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	form, err := h.formService.GetOwned(c.Request.Context(), userID, formID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// GetPublicForm serves the share link; no authentication required.
func (h *FormHandler) GetPublicForm(c *gin.Context) {
	formID, err := parseFormID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.formService.GetPublic(c.Request.Context(), formID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *FormHandler) ListForms(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	summaries, err := h.formService.ListOwned(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

func (h *FormHandler) GetFormStats(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	formID, err := parseFormID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	stats, err := h.formService.GetStats(c.Request.Context(), userID, formID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *FormHandler) ListSubmissions(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	formID, err := parseFormID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.formService.ListSubmissions(c.Request.Context(), userID, formID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *FormHandler) SearchForms(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	hits, err := h.formService.SearchOwned(c.Request.Context(), userID, query, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": hits})
}

func parseFormID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.New(http.StatusBadRequest, "invalid form ID format", apperror.ErrInvalidInput)
	}
	return id, nil
}
