package httpserver

import (
	"net/http"

	ordersvc "communityshop/internal/service/order"
	paymentsvc "communityshop/internal/service/payment"
	"communityshop/internal/validation"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

func checkoutHandler(svc orderService, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.CheckoutRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		ord, err := svc.Create(c.Request.Context(), ordersvc.CreateInput{
			OwnerID:         ownerFrom(c),
			Lines:           checkoutLines(req.Lines),
			ShippingAddress: req.ShippingAddress.ToDomain(),
			BillingAddress:  req.BillingAddress.ToDomain(),
			SubtotalCents:   req.SubtotalCents,
			ShippingCents:   req.ShippingCents,
			TaxCents:        req.TaxCents,
			TotalCents:      req.TotalCents,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, ord)
	}
}

func verifySessionHandler(svc paymentService, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.VerifySessionRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		ord, err := svc.VerifySession(c.Request.Context(), ownerFrom(c), req.SessionRef)
		if err != nil {
			writeError(c, err)
			return
		}
		// Replays land here too: the existing order, shown as success.
		c.JSON(http.StatusOK, ord)
	}
}

func captureHandler(svc paymentService, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.CaptureRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		ord, err := svc.Capture(c.Request.Context(), ownerFrom(c), paymentsvc.CaptureInput{
			ProcessorOrderID: req.ProcessorOrderID,
			Lines:            checkoutLines(req.Lines),
			ShippingAddress:  req.ShippingAddress.ToDomain(),
			BillingAddress:   req.BillingAddress.ToDomain(),
			ShippingCents:    req.ShippingCents,
			TaxCents:         req.TaxCents,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, ord)
	}
}

func checkoutLines(lines []validation.CheckoutLine) []ordersvc.LineInput {
	out := make([]ordersvc.LineInput, 0, len(lines))
	for _, line := range lines {
		out = append(out, ordersvc.LineInput{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			Size:           line.Size,
			Color:          line.Color,
		})
	}
	return out
}
