package handler

import (
	"net/http"
	"time"

	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SaleHandler struct {
	saleService   service.SaleService
	reportService service.ReportService
}

func NewSaleHandler(saleService service.SaleService, reportService service.ReportService) *SaleHandler {
	return &SaleHandler{saleService: saleService, reportService: reportService}
}

func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/api")
	{
		sales.GET("/sales", h.ListSales)
		sales.POST("/sales", h.RecordSale)
		sales.GET("/sales/daily", h.DailySales)
		sales.GET("/sales/:id/invoice", h.Invoice)
		sales.DELETE("/sales/:id", h.DeleteSale)
	}
}

// ListSales returns the paginated sale history
// @Summary      List sales
// @Description  Retrieves the sale history newest first with pagination controls
// @Tags         sales
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/sales [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	params := pagination.Parse(c)

	sales, total, err := h.saleService.ListSales(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"sales": sales,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// RecordSale records a cash or credit sale
// @Summary      Record sale
// @Description  Records a sale after checking derived availability; cash sales are settled in full, credit sales require a customer
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RecordSaleRequest  true  "Record Sale Payload"
// @Success      201      {object}  response.Response{data=service.SaleResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/sales [post]
func (h *SaleHandler) RecordSale(c *gin.Context) {
	var req service.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	sale, err := h.saleService.RecordSale(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sale))
}

// DailySales returns the digest of sales for one day
// @Summary      Daily sales
// @Description  Lists sales recorded on the given day (YYYY-MM-DD, defaults to today) with totals
// @Tags         sales
// @Produce      json
// @Param        date  query     string  false  "Day in YYYY-MM-DD format"
// @Success      200   {object}  response.Response{data=service.DailySalesResponse}
// @Failure      400   {object}  response.Response
// @Router       /api/sales/daily [get]
func (h *SaleHandler) DailySales(c *gin.Context) {
	day := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD: "+raw))
			return
		}
		day = parsed
	}

	digest, err := h.reportService.GetDailySales(c.Request.Context(), day)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, digest))
}

// Invoice renders the printable invoice for a credit sale
// @Summary      Sale invoice
// @Description  Returns the invoice lines for a credit sale; cash sales carry no outstanding balance and are rejected
// @Tags         sales
// @Produce      json
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/sales/{id}/invoice [get]
func (h *SaleHandler) Invoice(c *gin.Context) {
	invoice, err := h.saleService.Invoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DeleteSale removes a sale record
// @Summary      Delete sale
// @Description  Deletes a sale; received stock is untouched so availability rises by the deleted quantity
// @Tags         sales
// @Produce      json
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	if err := h.saleService.DeleteSale(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Sale deleted successfully"))
}
