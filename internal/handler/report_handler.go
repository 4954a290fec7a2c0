package handler

import (
	"net/http"

	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.GET("/stock", h.StockLevels)
		api.GET("/reports/customers", h.CustomerSummary)
		api.GET("/reports/dashboard", h.Dashboard)
	}
}

// StockLevels returns purchased, sold and remaining quantities per item
// @Summary      Stock levels
// @Description  Lists every item with cumulative received, cumulative sold and the remaining quantity floored at zero
// @Tags         reports
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.StockLevel}
// @Failure      500  {object}  response.Response
// @Router       /api/stock [get]
func (h *ReportHandler) StockLevels(c *gin.Context) {
	levels, err := h.reportService.StockLevels(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, levels))
}

// CustomerSummary returns per-customer totals across reporting periods
// @Summary      Customer summary
// @Description  For every customer returns sold, paid and unpaid totals for this month, last month and all time
// @Tags         reports
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.CustomerSummaryRow}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/customers [get]
func (h *ReportHandler) CustomerSummary(c *gin.Context) {
	rows, err := h.reportService.CustomerSummary(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// Dashboard returns headline counts and today's sales
// @Summary      Dashboard
// @Description  Returns customer, item and wholesaler counts together with the sales recorded today
// @Tags         reports
// @Produce      json
// @Success      200  {object}  response.Response{data=service.DashboardResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dashboard))
}
