package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/api/middleware"
	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/internal/repository"
	"github.com/Aviraj0403/grocery-checkout/internal/service"
	"github.com/Aviraj0403/grocery-checkout/pkg/errors"
)

// OrderResponse is the wire shape of a persisted order
type OrderResponse struct {
	ID               string                 `json:"id"`
	Status           domain.OrderStatus     `json:"status"`
	PaymentMethod    domain.PaymentMethod   `json:"payment_method"`
	PaymentStatus    domain.PaymentStatus   `json:"payment_status"`
	GatewayOrderID   *string                `json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string                `json:"gateway_payment_id,omitempty"`
	TotalAmount      float64                `json:"total_amount"`
	Discount         float64                `json:"discount"`
	FinalAmount      float64                `json:"final_amount"`
	Shipping         domain.ShippingAddress `json:"shipping"`
	Items            []domain.OrderItem     `json:"items,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

func toOrderResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:               order.ID.String(),
		Status:           order.Status,
		PaymentMethod:    order.PaymentMethod,
		PaymentStatus:    order.PaymentStatus,
		GatewayOrderID:   order.GatewayOrderID,
		GatewayPaymentID: order.GatewayPaymentID,
		TotalAmount:      order.TotalAmount,
		Discount:         order.Discount,
		FinalAmount:      order.FinalAmount,
		Shipping:         order.Shipping,
		Items:            order.Items,
		CreatedAt:        order.CreatedAt,
	}
}

// HandleListBuyerOrders returns the authenticated buyer's orders, newest first
func HandleListBuyerOrders(repos *repository.Repositories, gateway service.GatewayClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer, ok := middleware.GetBuyerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		limit := parseIntQuery(c, "limit", 50)
		offset := parseIntQuery(c, "offset", 0)

		orderService := service.NewOrderService(repos, gateway, logger)
		orders, err := orderService.ListBuyerOrders(c.Request.Context(), buyer.ID, limit, offset)
		if err != nil {
			logger.Error("Failed to list buyer orders", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		resp := make([]OrderResponse, 0, len(orders))
		for _, order := range orders {
			resp = append(resp, toOrderResponse(order))
		}
		c.JSON(http.StatusOK, gin.H{"orders": resp})
	}
}

// HandleGetOrder returns one of the buyer's orders with its items
func HandleGetOrder(repos *repository.Repositories, gateway service.GatewayClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer, ok := middleware.GetBuyerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		orderService := service.NewOrderService(repos, gateway, logger)
		order, err := orderService.GetOrder(c.Request.Context(), orderID)
		if err != nil {
			if _, isNotFound := err.(*errors.ErrNotFound); isNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			logger.Error("Failed to get order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		if order.BuyerID != buyer.ID {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"order": toOrderResponse(order)})
	}
}

// UpdateOrderStatusRequest moves an order along its lifecycle
type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// HandleUpdateOrderStatus updates an order's status, enforcing the lifecycle
// state machine
func HandleUpdateOrderStatus(repos *repository.Repositories, gateway service.GatewayClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}
		if !req.Status.IsValid() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid status"})
			return
		}

		orderService := service.NewOrderService(repos, gateway, logger)
		if err := orderService.UpdateStatus(c.Request.Context(), orderID, req.Status); err != nil {
			switch err.(type) {
			case *errors.ErrNotFound:
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			case *errors.ErrInvalidStateTransition:
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				logger.Error("Failed to update order status", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func parseIntQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
