package handler

import (
	"log"
	"net/http"

	"associapro/internal/middleware"
	"associapro/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// Checkout creates a charge on the gateway and a local pending record.
func (h *PaymentHandler) Checkout(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.svc.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		switch err {
		case service.ErrCourseNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.ErrInvalidBillingType:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("[PAYMENT] checkout user=%d failed: %v", userID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "checkout failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, result)
}

// History lists the current user's payments, newest first.
func (h *PaymentHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)
	payments, err := h.svc.History(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// GatewayStatus queries the gateway for the live charge status.
func (h *PaymentHandler) GatewayStatus(c *gin.Context) {
	asaasID := c.Param("asaas_id")
	if asaasID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asaas_id is required"})
		return
	}
	p, err := h.svc.CheckGatewayStatus(c.Request.Context(), asaasID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "gateway lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}
