package handler

import (
	"net/http"

	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	itemService   service.ItemService
	reportService service.ReportService
}

func NewItemHandler(itemService service.ItemService, reportService service.ReportService) *ItemHandler {
	return &ItemHandler{itemService: itemService, reportService: reportService}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api")
	{
		items.GET("/items", h.ListItems)
		items.POST("/items", h.CreateItem)
		items.GET("/items/:id/available", h.AvailableStock)
		items.DELETE("/items/:id", h.DeleteItem)
	}
}

// ListItems returns every item as JSON for offline sync
// @Summary      List items
// @Description  Retrieves all items with prices and cumulative received stock
// @Tags         items
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.ItemResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	items, err := h.itemService.ListItems(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// CreateItem adds an item to the catalogue
// @Summary      Create item
// @Description  Creates an item; numeric fields must parse or the request is rejected naming the offending field
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateItemRequest  true  "Create Item Payload"
// @Success      201      {object}  response.Response{data=service.ItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// AvailableStock returns the derived availability of one item
// @Summary      Available stock
// @Description  Returns cumulative received minus cumulative sold, floored at zero
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id}/available [get]
func (h *ItemHandler) AvailableStock(c *gin.Context) {
	available, err := h.reportService.GetAvailableStock(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"item_id":   c.Param("id"),
		"available": available,
	}))
}

// DeleteItem removes an item
// @Summary      Delete item
// @Description  Deletes an item by ID
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	if err := h.itemService.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Item deleted successfully"))
}
