package httpserver

import (
	"net/http"

	"communityshop/internal/domain"
	donationsvc "communityshop/internal/service/donation"
	"github.com/gin-gonic/gin"
)

func listCampaignsHandler(svc donationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		campaigns, err := svc.ListCampaigns(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		if campaigns == nil {
			campaigns = []domain.Campaign{}
		}
		c.JSON(http.StatusOK, gin.H{"results": campaigns})
	}
}

func getCampaignHandler(svc donationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		campaign, err := svc.GetCampaign(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, campaign)
	}
}

type donationRequest struct {
	AmountCents int64  `json:"amountCents" binding:"required"`
	Currency    string `json:"currency"`
	Anonymous   bool   `json:"anonymous"`
	Message     string `json:"message"`
}

func recordDonationHandler(svc donationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req donationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		var userID *string
		if owner := c.GetHeader(ownerHeader); owner != "" {
			userID = &owner
		}
		donation, err := svc.Record(c.Request.Context(), c.Param("id"), donationsvc.RecordInput{
			UserID:      userID,
			AmountCents: req.AmountCents,
			Currency:    req.Currency,
			Anonymous:   req.Anonymous,
			Message:     req.Message,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, donation)
	}
}

func listDonationsHandler(svc donationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		donations, err := svc.ListByCampaign(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if donations == nil {
			donations = []domain.Donation{}
		}
		c.JSON(http.StatusOK, gin.H{"results": donations})
	}
}

func updateDonationHandler(svc donationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req donationsvc.UpdateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}
		donation, err := svc.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, donation)
	}
}

func deleteDonationHandler(svc donationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
