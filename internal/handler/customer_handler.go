package handler

import (
	"net/http"

	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService service.CustomerService
	reportService   service.ReportService
}

func NewCustomerHandler(customerService service.CustomerService, reportService service.ReportService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, reportService: reportService}
}

func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup) {
	customers := router.Group("/api")
	{
		customers.GET("/customers", h.ListCustomers)
		customers.POST("/customers", h.CreateCustomer)
		customers.GET("/customers/search", h.SearchCustomers)
		customers.GET("/customers/:id", h.CustomerDetail)
		customers.GET("/customers/:id/balance", h.CustomerBalance)
		customers.DELETE("/customers/:id", h.DeleteCustomer)
	}
}

// ListCustomers returns every customer as JSON for offline sync
// @Summary      List customers
// @Description  Retrieves all customers
// @Tags         customers
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.CustomerResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, customers))
}

// CreateCustomer adds a new customer
// @Summary      Create customer
// @Description  Creates a customer; the phone number is mandatory and must not collide with an existing customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateCustomerRequest  true  "Create Customer Payload"
// @Success      201      {object}  response.Response{data=service.CustomerResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req service.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, customer))
}

// SearchCustomers finds customers by name or phone fragment
// @Summary      Search customers
// @Description  Searches customers by name or phone, returning at most 10 matches
// @Tags         customers
// @Produce      json
// @Param        q    query     string  true  "Search query"
// @Success      200  {object}  response.Response{data=[]service.CustomerResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/customers/search [get]
func (h *CustomerHandler) SearchCustomers(c *gin.Context) {
	customers, err := h.customerService.SearchCustomers(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, customers))
}

// CustomerDetail returns a customer with its sales and all-time totals
// @Summary      Customer detail
// @Description  Retrieves a customer, its sales history and all-time billed/paid/balance totals
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  response.Response{data=service.CustomerDetailResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) CustomerDetail(c *gin.Context) {
	detail, err := h.customerService.CustomerDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, detail))
}

// CustomerBalance returns billed/paid/unpaid totals for a period
// @Summary      Customer balance
// @Description  Sums a customer's sales over all time, the current month or the previous month
// @Tags         customers
// @Produce      json
// @Param        id      path      string  true   "Customer ID"
// @Param        period  query     string  false  "all | this_month | last_month (default all)"
// @Success      200     {object}  response.Response{data=service.BalanceResponse}
// @Failure      404     {object}  response.Response
// @Router       /api/customers/{id}/balance [get]
func (h *CustomerHandler) CustomerBalance(c *gin.Context) {
	period, err := service.ParsePeriod(c.Query("period"))
	if err != nil {
		fail(c, err)
		return
	}

	balance, err := h.reportService.GetCustomerBalance(c.Request.Context(), c.Param("id"), period)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, balance))
}

// DeleteCustomer removes a customer without sales
// @Summary      Delete customer
// @Description  Deletes a customer; refused while the customer still owns sales
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	if err := h.customerService.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Customer deleted successfully"))
}
