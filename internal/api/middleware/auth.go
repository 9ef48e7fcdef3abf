package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
	"github.com/Aviraj0403/grocery-checkout/internal/repository"
)

const BuyerContextKey = "buyer"

// AuthMiddleware authenticates requests using a buyer API token. Tokens are
// located by SHA-256 lookup hash and verified against the stored bcrypt hash.
func AuthMiddleware(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// Extract Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		buyer, err := repos.Buyer.GetByTokenLookup(c.Request.Context(), TokenLookupHex(token))
		if err != nil {
			logger.Warn("Failed to authenticate buyer", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		if !VerifyToken(token, buyer.TokenHash) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		if !buyer.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "buyer account is inactive"})
			c.Abort()
			return
		}

		// Store buyer in context
		c.Set(BuyerContextKey, buyer)
		c.Next()
	}
}

// GetBuyerFromContext retrieves the buyer from the Gin context
func GetBuyerFromContext(c *gin.Context) (*domain.Buyer, bool) {
	buyer, exists := c.Get(BuyerContextKey)
	if !exists {
		return nil, false
	}

	b, ok := buyer.(*domain.Buyer)
	return b, ok
}

// TokenLookupHex returns the SHA-256 hex of a token for fast lookup
func TokenLookupHex(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// HashToken hashes a token using bcrypt
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), 10)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyToken verifies a token against a bcrypt hash
func VerifyToken(token, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token))
	return err == nil
}
