package httpserver

import (
	"net/http"

	cartsvc "communityshop/internal/service/cart"
	"github.com/gin-gonic/gin"
)

type cartLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

func (r cartLineRequest) toInput() cartsvc.LineInput {
	return cartsvc.LineInput{
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Size:      r.Size,
		Color:     r.Color,
	}
}

func getCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Get(c.Request.Context(), ownerFrom(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func addCartLineHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		line, err := svc.Add(c.Request.Context(), ownerFrom(c), req.toInput())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, line)
	}
}

func setCartLineHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		line, err := svc.SetQuantity(c.Request.Context(), ownerFrom(c), req.toInput())
		if err != nil {
			writeError(c, err)
			return
		}
		if line == nil {
			// Quantity <= 0 removed the line.
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

func removeCartLineHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		if err := svc.Remove(c.Request.Context(), ownerFrom(c), req.toInput()); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func anonymousTokenHandler(svc anonymousService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, anonymousID, err := svc.Issue(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"token":       token,
			"anonymousId": anonymousID,
			"expiresIn":   svc.TTLSeconds(),
		})
	}
}
