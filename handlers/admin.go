package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yourrest-api/middleware"
	"yourrest-api/models"
	"yourrest-api/statemachine"
)

type adminOrderView struct {
	models.Order
	Next *models.OrderStatus `json:"next,omitempty"`
}

// AdminGetAllOrders returns every order after search, filter and sort, with per-status counts
func (h *Handler) AdminGetAllOrders(c *gin.Context) {
	params, err := parseQuery(c)
	if err != nil {
		badRequest(c, err, "Unknown sort option")
		return
	}
	res, err := h.Ordering.ListAllOrders(c.Request.Context(), middleware.GetClaims(c), params)
	if err != nil {
		fail(c, err, "Failed to load orders")
		return
	}

	views := make([]adminOrderView, len(res.Orders))
	for i, o := range res.Orders {
		views[i] = adminOrderView{Order: o}
		if next, ok := statemachine.NextForward(o.Status); ok {
			views[i].Next = &next
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"order_summary": res.Summary,
		"count":         len(views),
		"orders":        views,
	})
}

type AdvanceOrderRequest struct {
	Version int64 `json:"version"`
}

// AdminAdvanceOrder moves an order to its single next status
func (h *Handler) AdminAdvanceOrder(c *gin.Context) {
	var req AdvanceOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err, "Error updating order status!")
			return
		}
	}
	order, err := h.Ordering.AdvanceOrder(c.Request.Context(), middleware.GetClaims(c), c.Param("id"), req.Version)
	if err != nil {
		fail(c, err, "Error updating order status!")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Order status updated",
		"order":        order,
		"notification": models.Success("Order status updated successfully!"),
	})
}
