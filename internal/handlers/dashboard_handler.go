package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edutrack/exam-service/internal/services"
	"github.com/edutrack/exam-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
	}
}

// GetStats returns aggregate counters for the admin dashboard
// @Summary Dashboard stats
// @Description Returns exam/student/result counts, recent results and upcoming exams
// @Tags dashboard
// @Produce json
// @Success 200 {object} repositories.DashboardStats
// @Failure 500 {object} ErrorResponse
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	h.LogRequest(c, "Getting dashboard stats")

	stats, err := h.dashboardService.GetStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
