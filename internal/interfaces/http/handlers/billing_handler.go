package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"vidbrief/internal/domain/models"
	"vidbrief/internal/domain/services"
)

type BillingHandler struct {
	billing services.BillingService
}

func NewBillingHandler(billing services.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

type checkoutRequest struct {
	Plan       string `json:"plan" binding:"required"`
	SuccessURL string `json:"success_url" binding:"required"`
	CancelURL  string `json:"cancel_url" binding:"required"`
}

func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _, ok := requester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	url, sessionID, err := h.billing.CreateCheckoutSession(c.Request.Context(), userID, models.UserPlan(req.Plan), req.SuccessURL, req.CancelURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": url, "session_id": sessionID})
}

func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	if err := h.billing.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook not processed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
