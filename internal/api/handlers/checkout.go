package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/api/middleware"
	"github.com/Aviraj0403/grocery-checkout/internal/checkout"
	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/internal/repository"
	"github.com/Aviraj0403/grocery-checkout/internal/service"
	"github.com/Aviraj0403/grocery-checkout/pkg/errors"
)

// CreateOrderRequest is the COD order submission payload
type CreateOrderRequest struct {
	Items    []OrderItemRequest     `json:"items" binding:"required,min=1"`
	Discount float64                `json:"discount" binding:"min=0"`
	Shipping domain.ShippingAddress `json:"shipping" binding:"required"`
}

type OrderItemRequest struct {
	ProductID string                 `json:"product_id" binding:"required"`
	Name      string                 `json:"name"`
	Quantity  int                    `json:"quantity" binding:"required,min=1"`
	UnitPrice float64                `json:"unit_price" binding:"min=0"`
	Variant   *domain.ProductVariant `json:"variant,omitempty"`
}

// CreateGatewayOrderRequest asks for a gateway order handle
type CreateGatewayOrderRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// VerifyPaymentRequest carries the modal success identifiers plus the order
// payload captured at submit time
type VerifyPaymentRequest struct {
	GatewayOrderID   string                 `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string                 `json:"gateway_payment_id" binding:"required"`
	Signature        string                 `json:"signature" binding:"required"`
	Items            []OrderItemRequest     `json:"items" binding:"required,min=1"`
	Discount         float64                `json:"discount" binding:"min=0"`
	Shipping         domain.ShippingAddress `json:"shipping" binding:"required"`
}

// HandleCreateOrder places a cash-on-delivery order. Totals are recomputed
// server-side from the submitted items; client-declared totals are not
// trusted.
func HandleCreateOrder(repos *repository.Repositories, gateway service.GatewayClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer, ok := middleware.GetBuyerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		submission, err := buildSubmission(req.Items, req.Discount, req.Shipping, domain.PaymentMethodCOD)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		orderService := service.NewOrderService(repos, gateway, logger)
		order, err := orderService.CreateOrder(c.Request.Context(), buyer.ID, submission)
		if err != nil {
			logger.Error("Failed to create COD order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "failed to create order",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"order":   toOrderResponse(order),
		})
	}
}

// HandleCreateGatewayOrder creates a gateway order for the given amount and
// returns the handle the payment modal is opened with
func HandleCreateGatewayOrder(repos *repository.Repositories, gateway service.GatewayClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer, ok := middleware.GetBuyerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req CreateGatewayOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		orderService := service.NewOrderService(repos, gateway, logger)
		gwOrder, err := orderService.CreateGatewayOrder(c.Request.Context(), buyer.ID, req.Amount)
		if err != nil {
			logger.Error("Failed to create gateway order", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"message": "could not initiate payment",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"gateway_order_id": gwOrder.GatewayOrderID,
			"amount":           gwOrder.AmountMinor,
			"currency":         gwOrder.Currency,
			"key":              gwOrder.PublicKey,
		})
	}
}

// HandleVerifyPayment verifies the payment signature and persists the order.
// A signature mismatch is a verification failure, distinct from a declined
// payment: the gateway may have charged without an order record.
func HandleVerifyPayment(repos *repository.Repositories, gateway service.GatewayClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer, ok := middleware.GetBuyerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req VerifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		submission, err := buildSubmission(req.Items, req.Discount, req.Shipping, domain.PaymentMethodOnline)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		proof := domain.PaymentProof{
			GatewayOrderID:   req.GatewayOrderID,
			GatewayPaymentID: req.GatewayPaymentID,
			Signature:        req.Signature,
		}

		orderService := service.NewOrderService(repos, gateway, logger)
		order, err := orderService.VerifyPayment(c.Request.Context(), buyer.ID, proof, submission)
		if err != nil {
			if _, isVerify := err.(*errors.ErrVerificationFailed); isVerify {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": "payment verification failed, please contact support",
				})
				return
			}
			logger.Error("Failed to persist verified order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "failed to persist order",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"order":   toOrderResponse(order),
		})
	}
}

// buildSubmission recomputes totals from submitted items via the payload
// builder, the single authority for final amounts
func buildSubmission(items []OrderItemRequest, discount float64, shipping domain.ShippingAddress, method domain.PaymentMethod) (*domain.OrderSubmission, error) {
	lines := make([]domain.CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.CartLine{
			ProductID:       item.ProductID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			SelectedVariant: item.Variant,
		})
	}
	return checkout.BuildSubmission(lines, discount, shipping, method)
}
