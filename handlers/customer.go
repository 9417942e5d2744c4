package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"yourrest-api/middleware"
	"yourrest-api/models"
	"yourrest-api/orderquery"
	"yourrest-api/payment"
	"yourrest-api/services"
	"yourrest-api/statemachine"
)

type PlaceOrderRequest struct {
	MenuItemID    string               `json:"menuItemId"`
	Name          string               `json:"name"`
	Phone         string               `json:"phone"`
	Address       string               `json:"address"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
}

// PlaceOrder creates a COD order, or opens a checkout for online payment
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Please fill all the details!")
		return
	}

	res, err := h.Ordering.PlaceOrder(c.Request.Context(), middleware.GetClaims(c), services.Intake(req))
	switch {
	case err == nil:
	case statusOf(err) == http.StatusBadRequest:
		fail(c, err, "Please fill all the details!")
		return
	case statusOf(err) == http.StatusBadGateway:
		fail(c, err, "Failed to initiate payment!")
		return
	default:
		fail(c, err, "Failed to place order!")
		return
	}

	if res.Checkout != nil {
		c.JSON(http.StatusAccepted, gin.H{
			"message":  "Complete the payment to place your order",
			"checkout": res.Checkout,
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Order placed successfully",
		"order":        res.Order,
		"notification": models.Success("Order placed successfully!"),
	})
}

// CompleteCheckout receives the checkout widget's success payload
func (h *Handler) CompleteCheckout(c *gin.Context) {
	var conf payment.Confirmation
	if err := c.ShouldBindJSON(&conf); err != nil {
		badRequest(c, err, "Failed to place order!")
		return
	}
	order, err := h.Ordering.CompleteCheckout(c.Request.Context(), middleware.GetClaims(c), c.Param("id"), conf)
	if err != nil {
		fail(c, err, "Failed to place order!")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Order placed successfully",
		"order":        order,
		"notification": models.Success("Order placed successfully!"),
	})
}

// CancelCheckout records a dismissed checkout; no order is created
func (h *Handler) CancelCheckout(c *gin.Context) {
	if err := h.Ordering.CancelCheckout(c.Request.Context(), middleware.GetClaims(c), c.Param("id")); err != nil {
		fail(c, err, "Failed to cancel payment")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Checkout cancelled",
		"notification": models.Info("Payment was canceled."),
	})
}

func parseQuery(c *gin.Context) (orderquery.Params, error) {
	sel, err := orderquery.ParseSelector(c.Query("sort"))
	if err != nil {
		return orderquery.Params{}, err
	}
	return orderquery.Params{Query: c.Query("q"), Selector: sel}, nil
}

type orderView struct {
	models.Order
	Actions []models.OrderStatus `json:"actions"`
}

// GetMyOrders returns the caller's orders after search, filter and sort
func (h *Handler) GetMyOrders(c *gin.Context) {
	params, err := parseQuery(c)
	if err != nil {
		badRequest(c, err, "Unknown sort option")
		return
	}
	orders, err := h.Ordering.ListOrders(c.Request.Context(), middleware.GetClaims(c), params)
	if err != nil {
		fail(c, err, "Failed to load orders")
		return
	}
	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = orderView{Order: o, Actions: statemachine.CustomerActions(o.Status)}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(views), "orders": views})
}

// CancelOrder cancels an order (owner only, until delivery)
func (h *Handler) CancelOrder(c *gin.Context) {
	order, err := h.Ordering.CancelOrder(c.Request.Context(), middleware.GetClaims(c), c.Param("id"))
	if err != nil {
		fail(c, err, "Cannot cancel order")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Order cancelled successfully",
		"order":        order,
		"notification": models.Success("Order cancelled successfully!"),
	})
}

// GetOrderHistory returns the status audit trail of an order
func (h *Handler) GetOrderHistory(c *gin.Context) {
	entries, err := h.Ordering.History(c.Request.Context(), middleware.GetClaims(c), c.Param("id"))
	if err != nil {
		fail(c, err, "Failed to load order history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(entries), "history": entries})
}

type PaymentRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// CreatePaymentOrder requests a gateway order handle for an amount in minor units
func (h *Handler) CreatePaymentOrder(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount is required"})
		return
	}
	order, err := h.Gateway.CreateOrder(c.Request.Context(), req.Amount, h.Currency)
	if err != nil {
		log.WithError(err).Error("creating payment order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": order.ID, "currency": order.Currency, "amount": order.Amount})
}
