package http

import (
	"net/http"

	"github.com/formforge/backend/internal/modules/analytics/service"
	"github.com/formforge/backend/pkg/apperror"
	"github.com/formforge/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetFormAnalytics returns the full aggregation bundle for one owned form.
func (h *AnalyticsHandler) GetFormAnalytics(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "invalid form ID format", apperror.ErrInvalidInput))
		return
	}

	report, err := h.analyticsService.FormAnalytics(c.Request.Context(), formID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	overview, err := h.analyticsService.DashboardOverview(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (h *AnalyticsHandler) GetManagementOverview(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	overview, err := h.analyticsService.ManagementOverview(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
