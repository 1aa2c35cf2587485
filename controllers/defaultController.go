package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bravoke/bravo-suppliers-api/utils"
)

// GetHome assembles the storefront homepage payload along with the
// visitor's cart count.
func GetHome(ctx *gin.Context) {
	page, err := catalog().Home()
	if err != nil {
		zap.S().Errorf("failed to build home page: %v", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	count, err := cartFor(ctx).Count()
	if err != nil {
		zap.S().Errorf("failed to count cart items: %v", err)
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"home":      page,
		"cartCount": count,
	})
}

// TestEmail sends a probe message so the SMTP settings can be verified
// without placing an order.
func TestEmail(ctx *gin.Context) {
	if err := utils.SendTestEmail(); err != nil {
		zap.S().Errorf("test email failed: %v", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to send test email")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Test email sent successfully!"})
}
