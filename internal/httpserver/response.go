package httpserver

import (
	"errors"
	"net/http"

	"communityshop/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError maps domain failures onto HTTP statuses. The mapping keeps
// "payment not captured" (402, safe to retry) distinguishable from
// "order already exists" (which handlers return as 200 with the existing
// order, never through this path).
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "msg": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, domain.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"error": "out_of_stock"})
	case errors.Is(err, domain.ErrStockExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": "stock_exceeded"})
	case errors.Is(err, domain.ErrPaymentIncomplete):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment_incomplete", "msg": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	}
}
