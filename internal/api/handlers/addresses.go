package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/api/middleware"
	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/internal/repository"
	"github.com/Aviraj0403/grocery-checkout/internal/service"
	"github.com/Aviraj0403/grocery-checkout/pkg/errors"
)

// HandleGetAddresses returns the buyer's address book
func HandleGetAddresses(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer, ok := middleware.GetBuyerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		addressService := service.NewAddressService(repos, logger)
		book, err := addressService.GetAddressBook(c.Request.Context(), buyer.ID)
		if err != nil {
			logger.Error("Failed to get address book", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"addresses": book.Addresses})
	}
}

// HandleAddAddress validates and appends a new address, returning the full
// updated set (new entry last)
func HandleAddAddress(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyer, ok := middleware.GetBuyerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var addr domain.ShippingAddress
		if err := c.ShouldBindJSON(&addr); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		addressService := service.NewAddressService(repos, logger)
		book, err := addressService.SaveAddress(c.Request.Context(), buyer.ID, addr)
		if err != nil {
			if ve, ok := err.(*errors.ErrValidation); ok {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":  "validation failed",
					"fields": ve.Fields,
				})
				return
			}
			logger.Error("Failed to save address", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"addresses": book.Addresses})
	}
}
