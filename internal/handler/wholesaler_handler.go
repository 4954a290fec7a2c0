package handler

import (
	"net/http"

	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type WholesalerHandler struct {
	wholesalerService service.WholesalerService
	reportService     service.ReportService
}

func NewWholesalerHandler(wholesalerService service.WholesalerService, reportService service.ReportService) *WholesalerHandler {
	return &WholesalerHandler{wholesalerService: wholesalerService, reportService: reportService}
}

func (h *WholesalerHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.GET("/wholesalers", h.ListWholesalers)
		api.POST("/wholesalers", h.CreateWholesaler)
		api.GET("/wholesalers/search", h.SearchWholesalers)
		api.GET("/wholesalers/:id", h.WholesalerDetail)
		api.GET("/wholesalers/:id/balance", h.WholesalerBalance)
		api.PUT("/wholesalers/:id", h.UpdateWholesaler)
		api.DELETE("/wholesalers/:id", h.DeleteWholesaler)

		api.POST("/wholesaler-transactions", h.CreateTransaction)
		api.PUT("/wholesaler-transactions/:id", h.EditTransaction)
		api.DELETE("/wholesaler-transactions/:id", h.DeleteTransaction)
	}
}

// ListWholesalers returns every wholesaler
// @Summary      List wholesalers
// @Tags         wholesalers
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.WholesalerResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/wholesalers [get]
func (h *WholesalerHandler) ListWholesalers(c *gin.Context) {
	wholesalers, err := h.wholesalerService.ListWholesalers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wholesalers))
}

// CreateWholesaler registers a wholesaler
// @Summary      Create wholesaler
// @Description  Creates a wholesaler; the phone number must not belong to an existing wholesaler
// @Tags         wholesalers
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateWholesalerRequest  true  "Create Wholesaler Payload"
// @Success      201      {object}  response.Response{data=service.WholesalerResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/wholesalers [post]
func (h *WholesalerHandler) CreateWholesaler(c *gin.Context) {
	var req service.CreateWholesalerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	wholesaler, err := h.wholesalerService.CreateWholesaler(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, wholesaler))
}

// SearchWholesalers searches wholesalers by name or phone
// @Summary      Search wholesalers
// @Tags         wholesalers
// @Produce      json
// @Param        q    query     string  true  "Search query"
// @Success      200  {object}  response.Response{data=[]service.WholesalerResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/wholesalers/search [get]
func (h *WholesalerHandler) SearchWholesalers(c *gin.Context) {
	wholesalers, err := h.wholesalerService.SearchWholesalers(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wholesalers))
}

// WholesalerDetail returns a wholesaler with its purchase history
// @Summary      Wholesaler detail
// @Tags         wholesalers
// @Produce      json
// @Param        id   path      string  true  "Wholesaler ID"
// @Success      200  {object}  response.Response{data=service.WholesalerDetailResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/wholesalers/{id} [get]
func (h *WholesalerHandler) WholesalerDetail(c *gin.Context) {
	detail, err := h.wholesalerService.WholesalerDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, detail))
}

// WholesalerBalance returns the signed balance owed to a wholesaler
// @Summary      Wholesaler balance
// @Description  Returns total purchased, total paid and the outstanding balance across all transactions
// @Tags         wholesalers
// @Produce      json
// @Param        id   path      string  true  "Wholesaler ID"
// @Success      200  {object}  response.Response{data=service.WholesalerBalanceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/wholesalers/{id}/balance [get]
func (h *WholesalerHandler) WholesalerBalance(c *gin.Context) {
	balance, err := h.reportService.GetWholesalerBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, balance))
}

// UpdateWholesaler updates a wholesaler's contact details
// @Summary      Update wholesaler
// @Tags         wholesalers
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Wholesaler ID"
// @Param        payload  body      service.UpdateWholesalerRequest  true  "Update Wholesaler Payload"
// @Success      200      {object}  response.Response{data=service.WholesalerResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/wholesalers/{id} [put]
func (h *WholesalerHandler) UpdateWholesaler(c *gin.Context) {
	var req service.UpdateWholesalerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	wholesaler, err := h.wholesalerService.UpdateWholesaler(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, wholesaler))
}

// DeleteWholesaler removes a wholesaler and its transactions
// @Summary      Delete wholesaler
// @Description  Deletes a wholesaler together with all of its purchase transactions; received stock stays as is
// @Tags         wholesalers
// @Produce      json
// @Param        id   path      string  true  "Wholesaler ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/wholesalers/{id} [delete]
func (h *WholesalerHandler) DeleteWholesaler(c *gin.Context) {
	if err := h.wholesalerService.DeleteWholesaler(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Wholesaler deleted successfully"))
}

// CreateTransaction records a purchase from a wholesaler
// @Summary      Create wholesaler transaction
// @Description  Records a purchase and receives the quantity into stock, creating the item by name when it does not exist yet
// @Tags         wholesalers
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateTransactionRequest  true  "Create Transaction Payload"
// @Success      201      {object}  response.Response{data=service.TransactionResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/wholesaler-transactions [post]
func (h *WholesalerHandler) CreateTransaction(c *gin.Context) {
	var req service.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tx, err := h.wholesalerService.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tx))
}

// EditTransaction corrects a recorded purchase
// @Summary      Edit wholesaler transaction
// @Description  Updates a purchase and reconciles item stock with the quantity or item name change
// @Tags         wholesalers
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Transaction ID"
// @Param        payload  body      service.EditTransactionRequest  true  "Edit Transaction Payload"
// @Success      200      {object}  response.Response{data=service.TransactionResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/wholesaler-transactions/{id} [put]
func (h *WholesalerHandler) EditTransaction(c *gin.Context) {
	var req service.EditTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tx, err := h.wholesalerService.EditTransaction(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tx))
}

// DeleteTransaction removes a recorded purchase
// @Summary      Delete wholesaler transaction
// @Description  Deletes a purchase and subtracts its quantity from the matching item's stock, floored at zero
// @Tags         wholesalers
// @Produce      json
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/wholesaler-transactions/{id} [delete]
func (h *WholesalerHandler) DeleteTransaction(c *gin.Context) {
	if err := h.wholesalerService.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Transaction deleted successfully"))
}
